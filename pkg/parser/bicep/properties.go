package bicep

import (
	"regexp"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

type extractionRule struct {
	matches func(resourceType string) bool
	extract func(block string, props domain.Properties)
}

func contains(parts ...string) func(string) bool {
	return func(resourceType string) bool {
		for _, part := range parts {
			if !strings.Contains(resourceType, part) {
				return false
			}
		}
		return true
	}
}

// extractionRules is evaluated first match wins. Static sites must come
// before the generic sites rule and jobs after it.
var extractionRules = []extractionRule{
	{matches: contains("virtualMachines"), extract: virtualMachine},
	{matches: contains("storageAccounts"), extract: storageAccount},
	{matches: contains("serverfarms"), extract: servicePlan},
	{matches: contains("databases"), extract: sqlDatabase},
	{matches: contains("managedClusters"), extract: managedCluster},
	{matches: contains("containerApps"), extract: containerApp},
	{matches: contains("workspaces", "OperationalInsights"), extract: logWorkspace},
	{matches: contains("staticSites"), extract: staticSite},
	{matches: contains("sites", "Web"), extract: webSite},
	{matches: contains("jobs", "App"), extract: containerJob},
	{matches: contains("registries", "ContainerRegistry"), extract: registry},
	{matches: contains("components", "Insights"), extract: appInsights},
	{matches: contains("managedEnvironments"), extract: managedEnvironment},
	{matches: contains("vaults", "KeyVault"), extract: keyVault},
}

var siteKind = regexp.MustCompile(`\bkind\s*:\s*['"]([^'"]+)['"]`)

func extractProperties(block, resourceType string) domain.Properties {
	props := domain.Properties{}
	for _, rule := range extractionRules {
		if rule.matches(resourceType) {
			rule.extract(block, props)
			break
		}
	}
	return props
}

func virtualMachine(block string, props domain.Properties) {
	if hw := extractNested(block, "hardwareProfile"); hw != "" {
		setIf(props, "vmSize", extractProperty(hw, "vmSize"))
	}
	if image := extractNested(block, "imageReference"); image != "" {
		if offer := extractProperty(image, "offer"); offer.IsSet() {
			osType := "Linux"
			if strings.Contains(strings.ToLower(offer.String()), "windows") {
				osType = "Windows"
			}
			props.Set("osType", domain.Resolved(osType))
		}
	}
	if disk := extractNested(block, "osDisk"); disk != "" {
		setIf(props, "osDiskSizeGB", extractProperty(disk, "diskSizeGB"))
	}
}

func storageAccount(block string, props domain.Properties) {
	setIf(props, "accessTier", extractProperty(block, "accessTier"))
	setIf(props, "kind", extractProperty(block, "kind"))
}

func servicePlan(block string, props domain.Properties) {
	setIf(props, "capacity", extractProperty(block, "capacity"))
}

func sqlDatabase(block string, props domain.Properties) {
	setIf(props, "dtu", extractProperty(block, "requestedServiceObjectiveName"))
}

// managedCluster reads the first agent pool.
func managedCluster(block string, props domain.Properties) {
	pool := extractCollection(block, "agentPoolProfiles")
	if pool == "" {
		return
	}
	setIf(props, "nodeCount", extractProperty(pool, "count"))
	setIf(props, "nodeVmSize", extractProperty(pool, "vmSize"))
}

// containerResources reads cpu and memory from the first container's resources.
func containerResources(template string, props domain.Properties) {
	containers := extractNestedList(template, "containers")
	if containers == "" {
		return
	}
	resources := extractNested(containers, "resources")
	if resources == "" {
		return
	}
	setIf(props, "cpu", extractNumeric(resources, "cpu"))
	setIf(props, "memory", extractProperty(resources, "memory"))
}

func containerApp(block string, props domain.Properties) {
	template := extractNested(block, "template")
	if template == "" {
		return
	}
	containerResources(template, props)

	if scale := extractNested(template, "scale"); scale != "" {
		setIf(props, "minReplicas", extractProperty(scale, "minReplicas"))
		setIf(props, "maxReplicas", extractProperty(scale, "maxReplicas"))
	}
}

func logWorkspace(block string, props domain.Properties) {
	if sku := extractNested(block, "sku"); sku != "" {
		setIf(props, "sku", extractProperty(sku, "name"))
	}
	setIf(props, "retentionInDays", extractProperty(block, "retentionInDays"))
}

func staticSite(block string, props domain.Properties) {
	if sku := extractNested(block, "sku"); sku != "" {
		setIf(props, "sku", extractProperty(sku, "name"))
		setIf(props, "tier", extractProperty(sku, "tier"))
	}
}

// webSite flags function apps from a quoted kind so the cost engine can route
// them to consumption pricing.
func webSite(block string, props domain.Properties) {
	if m := siteKind.FindStringSubmatch(block); m != nil {
		props.Set("kind", domain.Resolved(m[1]))
		if strings.Contains(strings.ToLower(m[1]), "functionapp") {
			props.Set("isFunction", domain.Resolved(true))
		}
	}
	setIf(props, "serverFarmId", extractProperty(block, "serverFarmId"))
}

func containerJob(block string, props domain.Properties) {
	if cfg := extractNested(block, "configuration"); cfg != "" {
		setIf(props, "triggerType", extractProperty(cfg, "triggerType"))
		setIf(props, "replicaTimeout", extractProperty(cfg, "replicaTimeout"))
	}
	if template := extractNested(block, "template"); template != "" {
		containerResources(template, props)
	}
}

func registry(block string, props domain.Properties) {
	if sku := extractNested(block, "sku"); sku != "" {
		setIf(props, "sku", extractProperty(sku, "name"))
	}
}

func appInsights(block string, props domain.Properties) {
	setIf(props, "applicationType", extractProperty(block, "Application_Type"))
	setIf(props, "ingestionMode", extractProperty(block, "IngestionMode"))
}

// managedEnvironment marks the plan Dedicated when workload profiles are
// declared, reading the first profile.
func managedEnvironment(block string, props domain.Properties) {
	profile := extractCollection(block, "workloadProfiles")
	if profile == "" {
		props.Set("planType", domain.Resolved("Consumption"))
		return
	}
	props.Set("planType", domain.Resolved("Dedicated"))
	setIf(props, "profileName", extractProperty(profile, "name"))
	setIf(props, "profileType", extractProperty(profile, "workloadProfileType"))
}

func keyVault(block string, props domain.Properties) {
	setIf(props, "family", extractProperty(block, "family"))
}

package arm

import (
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/goccy/go-json"
)

type extractor func(resourceType string, def, properties map[string]any, props domain.Properties)

type extractionRule struct {
	matches func(resourceType string) bool
	extract extractor
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

func either(a, b string) func(string) bool {
	return func(resourceType string) bool {
		return strings.Contains(resourceType, a) || strings.Contains(resourceType, b)
	}
}

// extractionRules is evaluated first match wins, so overlapping substrings
// resolve by position. The categories after workspaces are kept last so they
// never shadow the entries above them.
var extractionRules = []extractionRule{
	{matches: contains("virtualMachines"), extract: virtualMachine},
	{matches: contains("storageAccounts"), extract: storageAccount},
	{matches: either("sites", "serverfarms"), extract: webSite},
	{matches: contains("databases"), extract: sqlDatabase},
	{matches: contains("managedClusters"), extract: managedCluster},
	{matches: contains("containerApps"), extract: containerApp},
	{matches: contains("vaults", "KeyVault"), extract: keyVault},
	{matches: contains("flexibleServers"), extract: flexibleServer},
	{matches: contains("registries"), extract: registry},
	{matches: contains("workspaces", "OperationalInsights"), extract: logWorkspace},
	{matches: contains("staticSites"), extract: staticSite},
	{matches: contains("jobs", "App"), extract: containerJob},
	{matches: contains("components", "Insights"), extract: appInsights},
	{matches: contains("managedEnvironments"), extract: managedEnvironment},
}

func extractProperties(def map[string]any, resourceType string) domain.Properties {
	props := domain.Properties{}
	properties := object(def, "properties")
	for _, rule := range extractionRules {
		if rule.matches(resourceType) {
			rule.extract(resourceType, def, properties, props)
			break
		}
	}
	return props
}

func set(props domain.Properties, key string, raw any) {
	props.Set(key, domain.ValueOf(raw))
}

func truthy(raw any) bool {
	switch t := raw.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case bool:
		return t
	}
	return true
}

func skuObject(def map[string]any) (map[string]any, bool) {
	raw, ok := def["sku"]
	if !ok {
		return map[string]any{}, true
	}
	sku, isObject := raw.(map[string]any)
	return sku, isObject
}

func virtualMachine(_ string, _, properties map[string]any, props domain.Properties) {
	if size := object(properties, "hardwareProfile")["vmSize"]; truthy(size) {
		set(props, "vmSize", size)
	}

	storage := object(properties, "storageProfile")
	offer := str(object(storage, "imageReference"), "offer")
	if strings.Contains(strings.ToLower(offer), "windows") {
		props.Set("osType", domain.Resolved("Windows"))
	} else {
		props.Set("osType", domain.Resolved("Linux"))
	}

	if size := object(storage, "osDisk")["diskSizeGB"]; truthy(size) {
		set(props, "osDiskSizeGB", size)
	}
	if disks := list(storage, "dataDisks"); len(disks) > 0 {
		props.Set("dataDiskCount", domain.Resolved(len(disks)))
	}
}

func storageAccount(_ string, def, properties map[string]any, props domain.Properties) {
	set(props, "accessTier", properties["accessTier"])
	set(props, "kind", def["kind"])
	set(props, "largeFileShares", properties["largeFileSharesState"])
}

// webSite covers plans and apps. Function apps are flagged from their kind so
// the cost engine can route them to consumption pricing.
func webSite(resourceType string, def, properties map[string]any, props domain.Properties) {
	set(props, "serverFarmId", properties["serverFarmId"])

	if sku, ok := skuObject(def); ok {
		capacity, found := sku["capacity"]
		if !found {
			capacity = json.Number("1")
		}
		set(props, "capacity", capacity)
	}

	if kind := str(def, "kind"); kind != "" && strings.Contains(resourceType, "sites") {
		props.Set("kind", domain.Resolved(kind))
		if strings.Contains(strings.ToLower(kind), "functionapp") {
			props.Set("isFunction", domain.Resolved(true))
		}
	}
}

func sqlDatabase(_ string, _, properties map[string]any, props domain.Properties) {
	set(props, "requestedServiceObjectiveName", properties["requestedServiceObjectiveName"])
	set(props, "maxSizeBytes", properties["maxSizeBytes"])
	set(props, "elasticPoolId", properties["elasticPoolId"])
}

func managedCluster(_ string, _, properties map[string]any, props domain.Properties) {
	pools := list(properties, "agentPoolProfiles")
	if len(pools) == 0 {
		return
	}

	total := 0
	sizes := make([]any, 0, len(pools))
	for _, raw := range pools {
		pool, _ := raw.(map[string]any)
		count := 1
		if n, ok := pool["count"].(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				count = int(i)
			}
		}
		total += count

		size, ok := pool["vmSize"].(string)
		if !ok {
			size = "unknown"
		}
		sizes = append(sizes, size)
	}
	props.Set("totalNodeCount", domain.Resolved(total))
	props.Set("nodeVmSizes", domain.Resolved(sizes))
}

func firstContainerResources(properties map[string]any) (map[string]any, bool) {
	containers := list(object(properties, "template"), "containers")
	if len(containers) == 0 {
		return nil, false
	}
	first, _ := containers[0].(map[string]any)
	return object(first, "resources"), true
}

func containerApp(_ string, _, properties map[string]any, props domain.Properties) {
	if resources, ok := firstContainerResources(properties); ok {
		set(props, "cpu", resources["cpu"])
		set(props, "memory", resources["memory"])
	}

	scale := object(object(properties, "template"), "scale")
	minReplicas, ok := scale["minReplicas"]
	if !ok {
		minReplicas = json.Number("0")
	}
	maxReplicas, ok := scale["maxReplicas"]
	if !ok {
		maxReplicas = json.Number("10")
	}
	set(props, "minReplicas", minReplicas)
	set(props, "maxReplicas", maxReplicas)
}

func keyVault(_ string, def, _ map[string]any, props domain.Properties) {
	sku, _ := skuObject(def)
	set(props, "family", sku["family"])
	set(props, "name", sku["name"])
}

func flexibleServer(_ string, _, properties map[string]any, props domain.Properties) {
	set(props, "storageSizeGB", object(properties, "storage")["storageSizeGB"])
}

func registry(_ string, def, _ map[string]any, props domain.Properties) {
	sku, _ := skuObject(def)
	set(props, "sku", sku["name"])
}

func logWorkspace(_ string, def, properties map[string]any, props domain.Properties) {
	set(props, "retentionInDays", properties["retentionInDays"])
	sku, _ := skuObject(def)
	set(props, "sku", sku["name"])
}

func staticSite(_ string, def, _ map[string]any, props domain.Properties) {
	sku, _ := skuObject(def)
	if name := sku["name"]; truthy(name) {
		set(props, "sku", name)
	}
	if tier := sku["tier"]; truthy(tier) {
		set(props, "tier", tier)
	}
}

func containerJob(_ string, _, properties map[string]any, props domain.Properties) {
	configuration := object(properties, "configuration")
	if trigger := configuration["triggerType"]; truthy(trigger) {
		set(props, "triggerType", trigger)
	}
	if timeout := configuration["replicaTimeout"]; truthy(timeout) {
		set(props, "replicaTimeout", timeout)
	}
	if resources, ok := firstContainerResources(properties); ok {
		if cpu := resources["cpu"]; truthy(cpu) {
			set(props, "cpu", cpu)
		}
		if memory := resources["memory"]; truthy(memory) {
			set(props, "memory", memory)
		}
	}
}

func appInsights(_ string, _, properties map[string]any, props domain.Properties) {
	if appType := properties["Application_Type"]; truthy(appType) {
		set(props, "applicationType", appType)
	}
	if mode := properties["IngestionMode"]; truthy(mode) {
		set(props, "ingestionMode", mode)
	}
}

func managedEnvironment(_ string, _, properties map[string]any, props domain.Properties) {
	profiles := list(properties, "workloadProfiles")
	if len(profiles) == 0 {
		props.Set("planType", domain.Resolved("Consumption"))
		return
	}

	props.Set("planType", domain.Resolved("Dedicated"))
	first, _ := profiles[0].(map[string]any)
	if name := first["name"]; truthy(name) {
		set(props, "profileName", name)
	}
	if profileType := first["workloadProfileType"]; truthy(profileType) {
		set(props, "profileType", profileType)
	}
}

package domain

// ResourceDescriptor is the normalized form of a single resource declaration,
// whichever template dialect it was read from.
type ResourceDescriptor struct {
	ResourceType string     `json:"resource_type" yaml:"resource_type"`
	Name         Value      `json:"name" yaml:"name"`
	Location     Value      `json:"location" yaml:"location"`
	APIVersion   string     `json:"api_version" yaml:"api_version"`
	SKU          Value      `json:"sku" yaml:"sku"`
	Tier         Value      `json:"tier" yaml:"tier"`
	Kind         Value      `json:"kind" yaml:"kind"`
	Properties   Properties `json:"properties" yaml:"properties"`
	Count        int        `json:"count" yaml:"count"`
	DependsOn    []string   `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	SymbolicName string     `json:"symbolic_name,omitempty" yaml:"symbolic_name,omitempty"`
	SourceLine   int        `json:"line_number,omitempty" yaml:"line_number,omitempty"`
}

func NewResourceDescriptor(resourceType string) ResourceDescriptor {
	return ResourceDescriptor{
		ResourceType: resourceType,
		Properties:   Properties{},
		Count:        1,
	}
}

// ServiceName is the catalog service the resource type is billed under.
func (r ResourceDescriptor) ServiceName() string {
	return ServiceNameFor(r.ResourceType)
}

var serviceNames = map[string]string{
	"Microsoft.Compute/virtualMachines":          "Virtual Machines",
	"Microsoft.Storage/storageAccounts":          "Storage",
	"Microsoft.Sql/servers/databases":            "SQL Database",
	"Microsoft.Sql/servers":                      "SQL Database",
	"Microsoft.Web/sites":                        "Azure App Service",
	"Microsoft.Web/serverfarms":                  "Azure App Service",
	"Microsoft.ContainerService/managedClusters": "Azure Kubernetes Service",
	"Microsoft.App/containerApps":                "Azure Container Apps",
	"Microsoft.App/managedEnvironments":          "Azure Container Apps",
	"Microsoft.DBforPostgreSQL/flexibleServers":  "Azure Database for PostgreSQL",
	"Microsoft.DBforMySQL/flexibleServers":       "Azure Database for MySQL",
	"Microsoft.KeyVault/vaults":                  "Key Vault",
	"Microsoft.ContainerRegistry/registries":     "Container Registry",
	"Microsoft.OperationalInsights/workspaces":   "Log Analytics",
	"Microsoft.Insights/components":              "Application Insights",
	"Microsoft.Network/virtualNetworks":          "Virtual Network",
	"Microsoft.Network/publicIPAddresses":        "Virtual Network",
	"Microsoft.Network/loadBalancers":            "Load Balancer",
	"Microsoft.Network/applicationGateways":      "Application Gateway",
	"Microsoft.Cache/Redis":                      "Azure Cache for Redis",
	"Microsoft.ServiceBus/namespaces":            "Service Bus",
	"Microsoft.EventHub/namespaces":              "Event Hubs",
	"Microsoft.CognitiveServices/accounts":       "Cognitive Services",
	"Microsoft.Web/staticSites":                  "Azure Static Web Apps",
}

// ServiceNameFor maps a full resource type to its pricing service name.
// Unknown types map to themselves.
func ServiceNameFor(resourceType string) string {
	if name, ok := serviceNames[resourceType]; ok {
		return name
	}
	return resourceType
}

package provider

// AzureSpec describes the az CLI surface. Azure's verbs are noun-then-verb
// ("az vm list", "az role assignment create") so the read-only set matches
// the trailing verb token rather than a prefix.
var AzureSpec = Spec{
	Kind:     Azure,
	Prefixes: []string{"az"},

	ReadOnlyVerbs: []string{
		"list",
		"show",
		"get",
		"export",
	},

	BlockList: []BlockListEntry{
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "role assignment create"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "role assignment delete"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "ad user create"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "ad user delete"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "keyvault secret delete"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "keyvault key delete"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "keyvault delete"},
		{Category: CategoryLogging, Tier: TierHigh, Pattern: "monitor diagnostic-settings delete"},
		{Category: CategoryLogging, Tier: TierHigh, Pattern: "monitor log-profiles delete"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "network nsg rule delete"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "network nsg rule create"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "network firewall delete"},
		{Category: CategoryProject, Tier: TierCritical, Pattern: "account subscription delete"},
		{Category: CategoryProject, Tier: TierCritical, Pattern: "group delete"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "vm delete"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "disk delete"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "image delete"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "storage account delete"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "storage container delete"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "storage account update"},
		{Category: CategoryDatabase, Tier: TierMedium, Pattern: "sql db delete"},
		{Category: CategoryDatabase, Tier: TierMedium, Pattern: "sql server delete"},
	},

	NLDictionary: []NLEntry{
		{Phrase: "list my virtual machines", Command: "az vm list"},
		{Phrase: "list my vms", Command: "az vm list"},
		{Phrase: "show vm details", Command: "az vm show"},
		{Phrase: "list storage accounts", Command: "az storage account list"},
		{Phrase: "show storage account details", Command: "az storage account show"},
		{Phrase: "list storage containers", Command: "az storage container list"},
		{Phrase: "list role assignments", Command: "az role assignment list"},
		{Phrase: "list ad users", Command: "az ad user list"},
		{Phrase: "show ad user details", Command: "az ad user show"},
		{Phrase: "list network security groups", Command: "az network nsg list"},
		{Phrase: "show network security group rules", Command: "az network nsg rule list"},
		{Phrase: "list virtual networks", Command: "az network vnet list"},
		{Phrase: "list subnets", Command: "az network vnet subnet list"},
		{Phrase: "list sql servers", Command: "az sql server list"},
		{Phrase: "list sql databases", Command: "az sql db list"},
		{Phrase: "list keyvaults", Command: "az keyvault list"},
		{Phrase: "show keyvault secrets", Command: "az keyvault secret list"},
		{Phrase: "list function apps", Command: "az functionapp list"},
		{Phrase: "show function app configuration", Command: "az functionapp config show"},
		{Phrase: "list aks clusters", Command: "az aks list"},
		{Phrase: "show aks cluster details", Command: "az aks show"},
		{Phrase: "list resource groups", Command: "az group list"},
		{Phrase: "show resource group details", Command: "az group show"},
		{Phrase: "list disks", Command: "az disk list"},
		{Phrase: "list images", Command: "az image list"},
		{Phrase: "list load balancers", Command: "az network lb list"},
		{Phrase: "show diagnostic settings", Command: "az monitor diagnostic-settings list"},
		{Phrase: "list log profiles", Command: "az monitor log-profiles list"},
		{Phrase: "list subscriptions", Command: "az account subscription list"},
		{Phrase: "show current subscription", Command: "az account show"},
		{Phrase: "block public access on storage account", Command: "az storage account update --allow-blob-public-access false"},
	},

	AuthErrorPatterns: []string{
		"please run 'az login'",
		"az login",
		"azure cli not logged in",
		"no subscription found",
		"authenticationfailed",
	},

	EnvOverlay: map[string]string{
		"subscription": "AZURE_SUBSCRIPTION_ID",
		"tenant":       "AZURE_TENANT_ID",
	},
}

package provider

// GCPSpec describes the gcloud and gsutil CLI surface. gcloud follows a
// "group resource verb" shape ("gcloud compute instances delete"); gsutil
// commands operate on gs:// URIs and are matched on their leading verb.
var GCPSpec = Spec{
	Kind:     GCP,
	Prefixes: []string{"gcloud", "gsutil"},

	ReadOnlyVerbs: []string{
		"list",
		"describe",
		"get",
		"export",
		"cat",
		"ls",
	},

	BlockList: []BlockListEntry{
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "projects add-iam-policy-binding"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "projects remove-iam-policy-binding"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "iam service-accounts create"},
		{Category: CategoryIdentity, Tier: TierCritical, Pattern: "iam service-accounts delete"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "secrets delete"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "kms keys destroy"},
		{Category: CategorySecrets, Tier: TierHigh, Pattern: "kms keys versions destroy"},
		{Category: CategoryLogging, Tier: TierHigh, Pattern: "logging sinks delete"},
		{Category: CategoryLogging, Tier: TierHigh, Pattern: "logging sinks update"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "compute firewall-rules delete"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "compute firewall-rules create"},
		{Category: CategoryNetwork, Tier: TierHigh, Pattern: "compute firewall-rules update"},
		{Category: CategoryProject, Tier: TierCritical, Pattern: "projects delete"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "compute instances delete"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "compute disks delete"},
		{Category: CategoryCompute, Tier: TierMedium, Pattern: "compute images delete"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "rb"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "rm -r"},
		{Category: CategoryStorage, Tier: TierMedium, Pattern: "iam ch"},
		{Category: CategoryDatabase, Tier: TierMedium, Pattern: "sql instances delete"},
	},

	NLDictionary: []NLEntry{
		{Phrase: "list my compute instances", Command: "gcloud compute instances list"},
		{Phrase: "show instance details", Command: "gcloud compute instances describe"},
		{Phrase: "list storage buckets", Command: "gsutil ls"},
		{Phrase: "show bucket iam policy", Command: "gsutil iam get"},
		{Phrase: "list service accounts", Command: "gcloud iam service-accounts list"},
		{Phrase: "show service account details", Command: "gcloud iam service-accounts describe"},
		{Phrase: "list iam policy bindings", Command: "gcloud projects get-iam-policy"},
		{Phrase: "list firewall rules", Command: "gcloud compute firewall-rules list"},
		{Phrase: "show firewall rule details", Command: "gcloud compute firewall-rules describe"},
		{Phrase: "list vpc networks", Command: "gcloud compute networks list"},
		{Phrase: "list subnets", Command: "gcloud compute networks subnets list"},
		{Phrase: "list sql instances", Command: "gcloud sql instances list"},
		{Phrase: "show sql instance details", Command: "gcloud sql instances describe"},
		{Phrase: "list cloud functions", Command: "gcloud functions list"},
		{Phrase: "show cloud function details", Command: "gcloud functions describe"},
		{Phrase: "list secrets", Command: "gcloud secrets list"},
		{Phrase: "list kms keys", Command: "gcloud kms keys list"},
		{Phrase: "show kms keyring details", Command: "gcloud kms keyrings describe"},
		{Phrase: "list logging sinks", Command: "gcloud logging sinks list"},
		{Phrase: "show logging sink details", Command: "gcloud logging sinks describe"},
		{Phrase: "list gke clusters", Command: "gcloud container clusters list"},
		{Phrase: "show gke cluster details", Command: "gcloud container clusters describe"},
		{Phrase: "list disks", Command: "gcloud compute disks list"},
		{Phrase: "list images", Command: "gcloud compute images list"},
		{Phrase: "list load balancers", Command: "gcloud compute forwarding-rules list"},
		{Phrase: "show current project", Command: "gcloud config get-value project"},
		{Phrase: "list projects", Command: "gcloud projects list"},
		{Phrase: "list cloud run services", Command: "gcloud run services list"},
		{Phrase: "show cloud run service details", Command: "gcloud run services describe"},
		{Phrase: "list pubsub topics", Command: "gcloud pubsub topics list"},
		{Phrase: "block public access on bucket", Command: "gsutil iam ch -d allUsers"},
	},

	AuthErrorPatterns: []string{
		"defaultcredentialserror",
		"could not automatically determine credentials",
		"reauthentication failed",
		"you do not currently have an active account",
		"permission_denied",
	},

	EnvOverlay: map[string]string{
		"project": "GOOGLE_CLOUD_PROJECT",
	},
}

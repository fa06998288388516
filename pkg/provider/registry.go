package provider

// Specs returns the static spec for k, or false if k is unknown.
func Specs(k Kind) (Spec, bool) {
	switch k {
	case AWS:
		return AWSSpec, true
	case GCP:
		return GCPSpec, true
	case Azure:
		return AzureSpec, true
	default:
		return Spec{}, false
	}
}

// All returns every known provider spec, AWS/GCP/Azure in that order.
func All() []Spec {
	return []Spec{AWSSpec, GCPSpec, AzureSpec}
}

package constants

// ResourceNameTagKey is the tag key AWS consoles display as the resource name.
const ResourceNameTagKey = "Name"

// ResourceManagedByTagKey is the tag key for ManagedBy.
// This tag is used to identify what system or tool manages a resource.
const ResourceManagedByTagKey = "ManagedBy"

// ResourceDeploymentTagKey is the tag key carrying the deployment name.
// Lookups by tag only consider resources carrying the current deployment name.
const ResourceDeploymentTagKey = ProjectName + ":deployment"

// ResourceInstanceTagKey is the tag key recording which instance a stop function is bound to.
const ResourceInstanceTagKey = ProjectName + ":instance"

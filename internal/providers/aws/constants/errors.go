package constants

// AWS error codes meaning the target of a call does not exist.
// Every "*.NotFound" code of EC2 is also treated as absent.
var NotFoundErrorCodes = []string{
	"NoSuchEntity",
	"ResourceNotFoundException",
	"ResourceNotFound",
	"NoSuchKey",
	"NotFound",
	"InvalidAllocationID.NotFound",
	"InvalidAssociationID.NotFound",
	"Gateway.NotAttached",
}

// AWS error codes meaning the object being created is already there.
var AlreadyExistsErrorCodes = []string{
	"EntityAlreadyExists",
	"InvalidPermission.Duplicate",
	"InvalidGroup.Duplicate",
	"InvalidKeyPair.Duplicate",
	"ResourceConflictException",
	"Resource.AlreadyAssociated",
	"RouteAlreadyExists",
}

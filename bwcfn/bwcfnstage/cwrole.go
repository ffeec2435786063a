package bwcfnstage

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnconfig"
	"github.com/basewarphq/bwstage/bwcfn/bwcfndoc"
	"github.com/basewarphq/bwstage/bwcfn/bwcfnnaming"
	"github.com/cockroachdb/errors"
)

const (
	cloudWatchRoleType    = "Custom::ApiGatewayAccountRole"
	cloudWatchRoleVersion = "1.0"
)

// EnsureCloudWatchRole makes sure the document holds the custom resource that
// registers the account-wide CloudWatch role for API Gateway, or that it does
// not when it is not needed.
//
// The resource is needed when logging produced any output and the role is not
// managed outside of this service. It returns the logical id of the resource
// when one is ensured and "" otherwise. An identical resource that is already
// present is kept, so every API of a service can ensure it; one that differs
// is an ErrConflict.
func EnsureCloudWatchRole(
	doc *bwcfndoc.Document,
	logging Logging,
	logs bwcfnconfig.LogsSetting,
	names bwcfnnaming.Provider,
) (string, error) {
	id := names.CloudWatchRoleLogicalID()
	existing, exists := doc.Resources.Get(id)

	if exists && existing.Type != cloudWatchRoleType {
		return "", errors.Wrapf(ErrRoleCollision, "resource %q has type %q, want %q", id, existing.Type, cloudWatchRoleType)
	}

	if logging.Empty() || logs.RoleIsManagedExternally() {
		if exists {
			doc.Resources.Delete(id)
		}
		return "", nil
	}

	if logs.Role != "" {
		if err := validateRoleArn(logs.Role); err != nil {
			return "", err
		}
	}

	res := &bwcfndoc.Resource{Type: cloudWatchRoleType, Attributes: bwcfndoc.NewMap()}
	res.Attributes.Set("Version", cloudWatchRoleVersion)
	res.SetProperty("ServiceToken", getAtt(names.CloudWatchRoleHandlerLogicalID(), "Arn"))
	if logs.Role != "" {
		res.SetProperty("RoleArn", logs.Role)
	}

	// Put is a no-op for an identical role and fails with ErrConflict when
	// the existing one was built from a different configuration.
	if err := doc.Resources.Put(id, res); err != nil {
		return "", errors.Wrap(err, "inserting cloudwatch role")
	}
	return id, nil
}

func validateRoleArn(s string) error {
	parsed, err := arn.Parse(s)
	if err != nil {
		return errors.Wrapf(ErrInvalidRoleArn, "%q: %v", s, err)
	}
	if parsed.Service != "iam" || !strings.HasPrefix(parsed.Resource, "role/") {
		return errors.Wrapf(ErrInvalidRoleArn, "%q is not an IAM role", s)
	}
	return nil
}

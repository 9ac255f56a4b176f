package params

import (
	"context"
	"errors"

	pipelineerrors "chainy-backend/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// SSMAPI is the subset of the SSM client used by SSMStore
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMStore reads parameters from AWS Systems Manager Parameter Store
type SSMStore struct {
	client SSMAPI
	logger *zap.Logger
}

// NewSSMStore creates a parameter store backed by SSM
func NewSSMStore(client SSMAPI, logger *zap.Logger) *SSMStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SSMStore{client: client, logger: logger}
}

// GetParameter reads name, decrypting SecureString values when decrypt is set
func (s *SSMStore) GetParameter(ctx context.Context, name string, decrypt bool) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(decrypt),
	})
	if err != nil {
		var notFound *types.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", pipelineerrors.NewParameterNotFoundError(name)
		}

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			s.logger.Debug("SSM API error",
				zap.String("parameter", name),
				zap.String("code", apiErr.ErrorCode()),
				zap.String("fault", apiErr.ErrorFault().String()),
			)
		}
		return "", pipelineerrors.NewParameterFetchError(name, err)
	}

	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return "", pipelineerrors.NewParameterNotFoundError(name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

package params

import (
	"context"
	"errors"
	"testing"

	pipelineerrors "chainy-backend/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSSMClient is a testify mock of SSMAPI
type MockSSMClient struct {
	mock.Mock
}

func (m *MockSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ssm.GetParameterOutput)
	return out, args.Error(1)
}

func TestSSMStore_GetParameter(t *testing.T) {
	client := new(MockSSMClient)
	client.On("GetParameter", mock.Anything, mock.MatchedBy(func(in *ssm.GetParameterInput) bool {
		return aws.ToString(in.Name) == "/chainy/dev/hash-salt" && aws.ToBool(in.WithDecryption)
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("s3cr3t")},
	}, nil)

	value, err := NewSSMStore(client, zap.NewNop()).GetParameter(context.Background(), "/chainy/dev/hash-salt", true)

	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", value)
	client.AssertExpectations(t)
}

func TestSSMStore_Errors(t *testing.T) {
	tests := []struct {
		name      string
		output    *ssm.GetParameterOutput
		err       error
		checkType func(error) bool
	}{
		{
			name:      "parameter not found",
			err:       &types.ParameterNotFound{Message: aws.String("missing")},
			checkType: pipelineerrors.IsParameterNotFound,
		},
		{
			name:      "nil parameter",
			output:    &ssm.GetParameterOutput{},
			checkType: pipelineerrors.IsParameterNotFound,
		},
		{
			name:      "empty value",
			output:    &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("")}},
			checkType: pipelineerrors.IsParameterNotFound,
		},
		{
			name:      "api error",
			err:       &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate exceeded"},
			checkType: pipelineerrors.IsParameterFetch,
		},
		{
			name:      "transport error",
			err:       errors.New("connection reset"),
			checkType: pipelineerrors.IsParameterFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockSSMClient)
			client.On("GetParameter", mock.Anything, mock.Anything).Return(tt.output, tt.err)

			value, err := NewSSMStore(client, nil).GetParameter(context.Background(), "/chainy/dev/hash-salt", true)

			require.Error(t, err)
			assert.Empty(t, value)
			assert.True(t, tt.checkType(err), "unexpected error %v", err)
			assert.Contains(t, err.Error(), "/chainy/dev/hash-salt")
		})
	}
}

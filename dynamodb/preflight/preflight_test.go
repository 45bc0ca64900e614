package preflight

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSTS struct{ mock.Mock }

func (m *mockSTS) GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sts.GetCallerIdentityOutput)
	return out, args.Error(1)
}

type mockIAM struct{ mock.Mock }

func (m *mockIAM) SimulatePrincipalPolicy(ctx context.Context, in *iam.SimulatePrincipalPolicyInput, _ ...func(*iam.Options)) (*iam.SimulatePrincipalPolicyOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*iam.SimulatePrincipalPolicyOutput)
	return out, args.Error(1)
}

func decision(d iamtypes.PolicyEvaluationDecisionType) *iam.SimulatePrincipalPolicyOutput {
	return &iam.SimulatePrincipalPolicyOutput{
		EvaluationResults: []iamtypes.EvaluationResult{{EvalDecision: d}},
	}
}

func identity() *sts.GetCallerIdentityOutput {
	return &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:sts::123456789012:assumed-role/deployer/session-1"),
	}
}

func TestPrincipalARN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "arn:aws:sts::123456789012:assumed-role/deployer/session-1", want: "arn:aws:iam::123456789012:role/deployer"},
		{in: "arn:aws:iam::123456789012:user/ada", want: "arn:aws:iam::123456789012:user/ada"},
		{in: "arn:aws-cn:sts::123456789012:assumed-role/r/s", want: "arn:aws-cn:iam::123456789012:role/r"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := PrincipalARN(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := PrincipalARN("not-an-arn")
	require.Error(t, err)
}

func TestChecker_Allowed(t *testing.T) {
	ctx := context.Background()
	s, i := &mockSTS{}, &mockIAM{}
	s.On("GetCallerIdentity", ctx, mock.Anything).Return(identity(), nil)
	i.On("SimulatePrincipalPolicy", ctx, mock.MatchedBy(func(in *iam.SimulatePrincipalPolicyInput) bool {
		return aws.ToString(in.PolicySourceArn) == "arn:aws:iam::123456789012:role/deployer" &&
			assert.ObjectsAreEqual([]string{"dynamodb:Query"}, in.ActionNames) &&
			assert.ObjectsAreEqual([]string{"arn:aws:dynamodb:eu-west-1:123456789012:table/games/index/byOwner"}, in.ResourceArns)
	})).Return(decision(iamtypes.PolicyEvaluationDecisionTypeAllowed), nil)

	c := New(s, i, "eu-west-1", zerolog.Nop())
	err := c.Check(ctx, Requirements(&dynamodb.QueryInput{TableName: aws.String("games"), IndexName: aws.String("byOwner")}))
	require.NoError(t, err)
	i.AssertExpectations(t)
}

func TestChecker_Denied(t *testing.T) {
	ctx := context.Background()
	s, i := &mockSTS{}, &mockIAM{}
	s.On("GetCallerIdentity", ctx, mock.Anything).Return(identity(), nil)
	i.On("SimulatePrincipalPolicy", ctx, mock.MatchedBy(func(in *iam.SimulatePrincipalPolicyInput) bool {
		return in.ActionNames[0] == "dynamodb:ConditionCheckItem"
	})).Return(decision(iamtypes.PolicyEvaluationDecisionTypeAllowed), nil)
	i.On("SimulatePrincipalPolicy", ctx, mock.MatchedBy(func(in *iam.SimulatePrincipalPolicyInput) bool {
		return in.ActionNames[0] == "dynamodb:UpdateItem"
	})).Return(decision(iamtypes.PolicyEvaluationDecisionTypeImplicitDeny), nil)

	c := New(s, i, "eu-west-1", zerolog.Nop())
	err := c.Check(ctx, Requirements(&dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{ConditionCheck: &types.ConditionCheck{TableName: aws.String("users")}},
			{Update: &types.Update{TableName: aws.String("scores")}},
		},
	}))
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	require.Len(t, denied.Denials, 1)
	assert.Equal(t, "dynamodb:UpdateItem", denied.Denials[0].Action)
	assert.Equal(t, "arn:aws:dynamodb:eu-west-1:123456789012:table/scores", denied.Denials[0].Resource)
}

func TestChecker_Paginates(t *testing.T) {
	ctx := context.Background()
	s, i := &mockSTS{}, &mockIAM{}
	s.On("GetCallerIdentity", ctx, mock.Anything).Return(identity(), nil)
	first := decision(iamtypes.PolicyEvaluationDecisionTypeAllowed)
	first.IsTruncated = true
	first.Marker = aws.String("next")
	i.On("SimulatePrincipalPolicy", ctx, mock.MatchedBy(func(in *iam.SimulatePrincipalPolicyInput) bool {
		return in.Marker == nil
	})).Return(first, nil)
	i.On("SimulatePrincipalPolicy", ctx, mock.MatchedBy(func(in *iam.SimulatePrincipalPolicyInput) bool {
		return aws.ToString(in.Marker) == "next"
	})).Return(decision(iamtypes.PolicyEvaluationDecisionTypeExplicitDeny), nil)

	c := New(s, i, "eu-west-1", zerolog.Nop())
	err := c.Check(ctx, []Requirement{{Action: "dynamodb:GetItem", Table: "users"}})
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "explicitDeny", denied.Denials[0].Decision)
}

func TestChecker_IdentityError(t *testing.T) {
	ctx := context.Background()
	s := &mockSTS{}
	boom := errors.New("expired token")
	s.On("GetCallerIdentity", ctx, mock.Anything).Return(nil, boom)

	c := New(s, &mockIAM{}, "eu-west-1", zerolog.Nop())
	err := c.Check(ctx, []Requirement{{Action: "dynamodb:GetItem", Table: "users"}})
	require.ErrorIs(t, err, boom)
}

func TestChecker_NothingToCheck(t *testing.T) {
	c := New(&mockSTS{}, &mockIAM{}, "eu-west-1", zerolog.Nop())
	require.NoError(t, c.Check(context.Background(), nil))
}

func TestRequirements_Dedupe(t *testing.T) {
	reqs := dedupe(Requirements(&dynamodb.TransactGetItemsInput{
		TransactItems: []types.TransactGetItem{
			{Get: &types.Get{TableName: aws.String("users")}},
			{Get: &types.Get{TableName: aws.String("users")}},
		},
	}))
	assert.Equal(t, []Requirement{{Action: "dynamodb:GetItem", Table: "users"}}, reqs)
}

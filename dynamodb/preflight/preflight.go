// Package preflight checks with IAM whether the current caller may run a
// DynamoDB request before it is sent.
package preflight

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

type STSClient interface {
	GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type IAMClient interface {
	SimulatePrincipalPolicy(ctx context.Context, in *iam.SimulatePrincipalPolicyInput, optFns ...func(*iam.Options)) (*iam.SimulatePrincipalPolicyOutput, error)
}

var (
	_ STSClient = (*sts.Client)(nil)
	_ IAMClient = (*iam.Client)(nil)
)

// Checker simulates the caller's policies against DynamoDB actions.
type Checker struct {
	sts    STSClient
	iam    IAMClient
	region string
	log    zerolog.Logger
}

func New(stsClient STSClient, iamClient IAMClient, region string, log zerolog.Logger) *Checker {
	return &Checker{sts: stsClient, iam: iamClient, region: region, log: log}
}

// NewFromConfig creates a Checker for the region of cfg.
func NewFromConfig(cfg aws.Config, log zerolog.Logger) *Checker {
	return New(sts.NewFromConfig(cfg), iam.NewFromConfig(cfg), cfg.Region, log)
}

// Denial is one action the caller may not run.
type Denial struct {
	Action   string
	Resource string
	Decision string
}

// DeniedError lists every denied action of a check.
type DeniedError struct {
	Principal string
	Denials   []Denial
}

func (e *DeniedError) Error() string {
	parts := make([]string, len(e.Denials))
	for i, d := range e.Denials {
		parts[i] = fmt.Sprintf("%s on %s (%s)", d.Action, d.Resource, d.Decision)
	}
	return fmt.Sprintf("%s is not allowed to run %s", e.Principal, strings.Join(parts, ", "))
}

// Check returns a *DeniedError if any requirement is not allowed for the
// caller.
func (c *Checker) Check(ctx context.Context, reqs []Requirement) error {
	if len(reqs) == 0 {
		return nil
	}
	id, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("get caller identity: %w", err)
	}
	principal, err := PrincipalARN(aws.ToString(id.Arn))
	if err != nil {
		return err
	}
	partition := strings.SplitN(principal, ":", 3)[1]

	var denials []Denial
	for _, r := range dedupe(reqs) {
		resource := r.ResourceARN(partition, c.region, aws.ToString(id.Account))
		decisions, err := c.simulate(ctx, principal, r.Action, resource)
		if err != nil {
			return err
		}
		for _, d := range decisions {
			if d != iamtypes.PolicyEvaluationDecisionTypeAllowed {
				denials = append(denials, Denial{Action: r.Action, Resource: resource, Decision: string(d)})
			}
		}
		c.log.Debug().Str("action", r.Action).Str("resource", resource).Int("denied", len(denials)).Msg("simulated")
	}
	if len(denials) > 0 {
		return &DeniedError{Principal: principal, Denials: denials}
	}
	return nil
}

func (c *Checker) simulate(ctx context.Context, principal, action, resource string) ([]iamtypes.PolicyEvaluationDecisionType, error) {
	var (
		decisions []iamtypes.PolicyEvaluationDecisionType
		marker    *string
	)
	for {
		out, err := c.iam.SimulatePrincipalPolicy(ctx, &iam.SimulatePrincipalPolicyInput{
			PolicySourceArn: aws.String(principal),
			ActionNames:     []string{action},
			ResourceArns:    []string{resource},
			Marker:          marker,
		})
		if err != nil {
			return nil, fmt.Errorf("simulate %s: %w", action, err)
		}
		for _, r := range out.EvaluationResults {
			decisions = append(decisions, r.EvalDecision)
		}
		if !out.IsTruncated {
			return decisions, nil
		}
		marker = out.Marker
	}
}

// PrincipalARN converts the ARN returned by GetCallerIdentity into an ARN
// accepted by SimulatePrincipalPolicy. Assumed-role sessions are mapped to
// their role; role paths are not recoverable from the session ARN.
func PrincipalARN(callerARN string) (string, error) {
	fields := strings.SplitN(callerARN, ":", 6)
	if len(fields) != 6 || fields[0] != "arn" {
		return "", fmt.Errorf("invalid caller arn: %q", callerARN)
	}
	partition, service, account, resource := fields[1], fields[2], fields[4], fields[5]
	if service == "sts" && strings.HasPrefix(resource, "assumed-role/") {
		role := strings.SplitN(strings.TrimPrefix(resource, "assumed-role/"), "/", 2)[0]
		return fmt.Sprintf("arn:%s:iam::%s:role/%s", partition, account, role), nil
	}
	if service != "iam" {
		return "", fmt.Errorf("unsupported principal: %q", callerARN)
	}
	return callerARN, nil
}

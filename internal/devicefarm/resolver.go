package devicefarm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdf "github.com/aws/aws-sdk-go-v2/service/devicefarm"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/logger"
)

// arnPrefix identifies references that are already stable Device Farm
// identifiers and need no lookup.
const arnPrefix = "arn:aws:devicefarm:"

// IsARN reports whether ref already looks like a Device Farm ARN.
func IsARN(ref string) bool {
	return strings.HasPrefix(ref, arnPrefix)
}

// NotFoundError indicates a name matched no remote entity.
type NotFoundError struct {
	Kind string // "project" or "run"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s named %q found", e.Kind, e.Name)
}

// AmbiguousError indicates a name matched more than one remote entity.
// The caller must retry with one of the listed ARNs.
type AmbiguousError struct {
	Kind string
	Name string
	ARNs []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s name %q is ambiguous, matches %d entries: %s",
		e.Kind, e.Name, len(e.ARNs), strings.Join(e.ARNs, ", "))
}

// Resolver turns human-readable project and run names into ARNs via the
// Device Farm list operations. Matching is a case-insensitive exact
// comparison of the full name.
type Resolver struct {
	api API
}

// NewResolver creates a resolver backed by the given client.
func NewResolver(api API) *Resolver {
	return &Resolver{api: api}
}

// ResolveProject returns the ARN for a project reference. ARNs pass through
// verbatim without any remote call.
func (r *Resolver) ResolveProject(ctx context.Context, ref string) (string, error) {
	if IsARN(ref) {
		logger.Debugf("project reference %s is already an ARN", ref)
		return ref, nil
	}

	var matches []string
	var nextToken *string
	for {
		out, err := r.api.ListProjects(ctx, &awsdf.ListProjectsInput{NextToken: nextToken})
		if err != nil {
			return "", fmt.Errorf("listing projects: %w", err)
		}
		for _, p := range out.Projects {
			if p.Name != nil && strings.EqualFold(*p.Name, ref) {
				matches = append(matches, aws.ToString(p.Arn))
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return pickMatch("project", ref, matches)
}

// ResolveRun returns the ARN for a run reference within a project. ARNs pass
// through verbatim without any remote call.
func (r *Resolver) ResolveRun(ctx context.Context, projectArn, ref string) (string, error) {
	if IsARN(ref) {
		logger.Debugf("run reference %s is already an ARN", ref)
		return ref, nil
	}

	var matches []string
	var nextToken *string
	for {
		out, err := r.api.ListRuns(ctx, &awsdf.ListRunsInput{
			Arn:       aws.String(projectArn),
			NextToken: nextToken,
		})
		if err != nil {
			return "", fmt.Errorf("listing runs in project %s: %w", projectArn, err)
		}
		for _, run := range out.Runs {
			if run.Name != nil && strings.EqualFold(*run.Name, ref) {
				matches = append(matches, aws.ToString(run.Arn))
			}
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return pickMatch("run", ref, matches)
}

func pickMatch(kind, name string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: kind, Name: name}
	case 1:
		logger.Debugf("resolved %s %q to %s", kind, name, matches[0])
		return matches[0], nil
	default:
		return "", &AmbiguousError{Kind: kind, Name: name, ARNs: matches}
	}
}

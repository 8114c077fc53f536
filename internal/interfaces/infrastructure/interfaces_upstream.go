package interfaces

import "context"

// UpstreamGateway fetches raw payloads from the university services. Payloads are
// decoded JSON values of unknown shape; callers convert them at the boundary.
type UpstreamGateway interface {
	Login(ctx context.Context, email, password string) (any, error)
	Curriculum(ctx context.Context, careerCode, catalog string) (any, error)
	History(ctx context.Context, studentID, careerCode string) (any, error)
}

package tenant

import "context"

// SuperTenantID is used when a request carries no tenant.
const SuperTenantID int64 = -1234

type ctxKey struct{}

// WithID returns a copy of ctx scoped to tenant id.
func WithID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the tenant stored in ctx, if any.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

// ContextProvider reads the tenant from the request context and falls back
// to Default.
type ContextProvider struct {
	Default int64
}

// NewContextProvider creates a provider that defaults to the super tenant.
func NewContextProvider() ContextProvider {
	return ContextProvider{Default: SuperTenantID}
}

func (p ContextProvider) CurrentTenantID(ctx context.Context) int64 {
	if id, ok := FromContext(ctx); ok {
		return id
	}
	return p.Default
}

package domain

import "context"

// TenantProvider supplies the tenant every statement is scoped to.
type TenantProvider interface {
	CurrentTenantID(ctx context.Context) int64
}

// ResourceLocator turns a path id and an optional resource name into the
// canonical path string.
type ResourceLocator interface {
	// ResolvePath returns ok == false when the path id is unknown.
	// With includeVersionInfo and a non-zero version the path carries a
	// ";version:<n>" suffix.
	ResolvePath(ctx context.Context, pathID int64, name string, version int64, includeVersionInfo bool) (path string, ok bool, err error)
}

// PathRepository stores the registry's path table.
type PathRepository interface {
	// GetPath returns ErrNotFound if the id is unknown.
	GetPath(ctx context.Context, pathID int64) (string, error)

	// GetPathID returns ErrNotFound if the path is unknown.
	GetPathID(ctx context.Context, path string) (int64, error)

	// CreatePath stores path (and its parents) and returns its id.
	// Existing paths return their current id.
	CreatePath(ctx context.Context, path string) (int64, error)
}

// PathCache keeps resolved collection paths per tenant.
// GetPath returns ErrNotFound on a miss.
type PathCache interface {
	GetPath(ctx context.Context, tenantID, pathID int64) (string, error)
	SetPath(ctx context.Context, tenantID, pathID int64, path string) error
}

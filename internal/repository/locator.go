package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/regcomments/registry-comments/domain"
)

const versionSuffix = ";version:"

// resourceLocator resolves path ids through the path cache and falls back
// to the path table on a miss.
type resourceLocator struct {
	paths   domain.PathRepository
	cache   domain.PathCache
	tenants domain.TenantProvider
	group   singleflight.Group
}

var _ domain.ResourceLocator = (*resourceLocator)(nil)

// NewResourceLocator creates the locator. cache may be nil, then every
// lookup goes to the path table.
func NewResourceLocator(paths domain.PathRepository, cache domain.PathCache, tenants domain.TenantProvider) *resourceLocator {
	return &resourceLocator{
		paths:   paths,
		cache:   cache,
		tenants: tenants,
	}
}

func (l *resourceLocator) ResolvePath(ctx context.Context, pathID int64, name string, version int64, includeVersionInfo bool) (string, bool, error) {
	path, ok, err := l.collectionPath(ctx, pathID)
	if err != nil || !ok {
		return "", ok, err
	}

	if name != "" {
		path = strings.TrimSuffix(path, "/") + "/" + name
	}
	if includeVersionInfo && version > 0 {
		path += versionSuffix + strconv.FormatInt(version, 10)
	}
	return path, true, nil
}

func (l *resourceLocator) collectionPath(ctx context.Context, pathID int64) (string, bool, error) {
	tenantID := l.tenants.CurrentTenantID(ctx)

	if l.cache != nil {
		path, err := l.cache.GetPath(ctx, tenantID, pathID)
		if err == nil {
			return path, true, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			logrus.Warnf("path cache lookup of %d failed: %v", pathID, err)
		}
	}

	// rows read inside a transaction may never commit, so they are neither
	// shared with other callers nor cached
	if _, ok := TxFromContext(ctx); ok {
		path, err := l.paths.GetPath(ctx, pathID)
		if errors.Is(err, domain.ErrNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return path, true, nil
	}

	// concurrent misses on the same tenant and path share one query, which
	// must not die with the caller that happened to start it
	key := strconv.FormatInt(tenantID, 10) + ":" + strconv.FormatInt(pathID, 10)
	shared := context.WithoutCancel(ctx)
	result, err, _ := l.group.Do(key, func() (any, error) {
		path, err := l.paths.GetPath(shared, pathID)
		if err != nil {
			return nil, err
		}

		if l.cache != nil {
			if err := l.cache.SetPath(shared, tenantID, pathID, path); err != nil {
				logrus.Warnf("failed to cache path %d: %v", pathID, err)
			}
		}
		return path, nil
	})
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result.(string), true, nil
}

// Package types holds the API payload shapes and their schemas.
package types

import (
	"sync"

	"github.com/opik-go/wireschema/registry"
)

// Type names used for registration.
const (
	JsonListStringName      = "JsonListString"
	MultipartUploadPartName = "MultipartUploadPart"
)

// Register adds every type of this package to r.
func Register(r *registry.Registry) error {
	if err := registry.Register(r, JsonListStringName, JsonListStringSchema()); err != nil {
		return err
	}
	return registry.Register(r, MultipartUploadPartName, MultipartUploadPartSchema())
}

var (
	defaultOnce     sync.Once
	defaultRegistry *registry.Registry
)

// Registry returns a process-wide registry holding the types of this package.
func Registry() *registry.Registry {
	defaultOnce.Do(func() {
		defaultRegistry = registry.New()
		if err := Register(defaultRegistry); err != nil {
			panic(err)
		}
	})
	return defaultRegistry
}

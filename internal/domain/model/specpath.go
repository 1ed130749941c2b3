package model

import (
	"path"
	"strings"
)

const resourceManagerSegment = "/resource-manager/"

// ServiceDirectoryOf returns the resource provider service directory for a
// specification document: the third ancestor of the file.
//
//	specification/contoso/resource-manager/Microsoft.Contoso/preview/2021-10-01-preview/contoso.json
//	-> specification/contoso/resource-manager/Microsoft.Contoso
//
// Paths with fewer than three ancestors produce "." and are not meaningful.
func ServiceDirectoryOf(file string) string {
	return path.Dir(path.Dir(path.Dir(file)))
}

// IsResourceManagerPath reports whether file lives under a resource-manager
// specification tree.
func IsResourceManagerPath(file string) bool {
	return strings.Contains(file, resourceManagerSegment)
}

// IsSwaggerPath reports whether file is an OpenAPI document under the
// specification root. Example payloads are not documents.
func IsSwaggerPath(file string) bool {
	return strings.HasPrefix(file, "specification/") &&
		strings.HasSuffix(file, ".json") &&
		!strings.Contains(file, "/examples/")
}

// FilterSwagger returns the OpenAPI documents from a list of changed paths.
func FilterSwagger(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if IsSwaggerPath(f) {
			out = append(out, f)
		}
	}
	return out
}

// FilterResourceManager returns the paths containing a resource-manager segment.
func FilterResourceManager(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if IsResourceManagerPath(f) {
			out = append(out, f)
		}
	}
	return out
}

// Package header provides the common header carried by boutpkg documents.
//
// Every document read or written by boutpkg (build requests, resolutions,
// build plans, package descriptions) starts with a Kubernetes-style header:
//
//	kind: Resolution
//	apiVersion: boutpkg.boutproject.org/v1alpha1
//	metadata:
//	  timestamp: "2026-01-02T10:30:00Z"
//	  version: v0.3.0
//
// Tools should check Kind and APIVersion before decoding the rest of a
// document.
package header

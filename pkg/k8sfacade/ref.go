// Package k8sfacade implements Solo's Kubernetes Abstraction Facade (spec
// §4.F): one facade per kube-context, exposing sub-facades per resource
// kind behind strongly-typed references and a uniform API-response error
// mapping.
package k8sfacade

import (
	"regexp"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// rfc1123Label matches a valid Kubernetes DNS-label: lowercase
// alphanumerics and '-', starting and ending alphanumeric, <=63 chars.
var rfc1123Label = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]{0,61}[a-z0-9])?$`)

func validateLabel(kind, name string) error {
	if name == "" || len(name) > 63 || !rfc1123Label.MatchString(name) {
		return soloerr.IllegalArgument("%s name %q is not a valid RFC-1123 DNS label", kind, name)
	}
	return nil
}

// Ref identifies a namespaced resource. Construct only through NewRef,
// which enforces the RFC-1123 rule on both segments.
type Ref struct {
	Namespace string
	Name      string
}

// NewRef validates namespace and name and returns a Ref.
func NewRef(namespace, name string) (Ref, error) {
	if err := validateLabel("namespace", namespace); err != nil {
		return Ref{}, err
	}
	if err := validateLabel("name", name); err != nil {
		return Ref{}, err
	}
	return Ref{Namespace: namespace, Name: name}, nil
}

// ContainerRef identifies a container within a pod.
type ContainerRef struct {
	ParentRef Ref
	Name      string
}

// NewContainerRef validates the container name; parentRef is taken as
// given (its segments are validated at its own construction).
func NewContainerRef(parentRef Ref, name string) (ContainerRef, error) {
	if err := validateLabel("container", name); err != nil {
		return ContainerRef{}, err
	}
	return ContainerRef{ParentRef: parentRef, Name: name}, nil
}

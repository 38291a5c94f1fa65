package k8sfacade

import (
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// statusOf extracts the HTTP-equivalent status code client-go attaches to
// an apierrors.StatusError, defaulting to 0 for non-API errors.
func statusOf(err error) int {
	var statusErr *apierrors.StatusError
	if apierrors.IsNotFound(err) {
		return 404
	}
	if se, ok := err.(apierrors.APIStatus); ok {
		return int(se.Status().Code)
	}
	_ = statusErr
	return 0
}

// wrapOutcome implements §4.F's "API response discipline": 404 maps to
// ResourceNotFound; any other status > 202 maps to the outcome error
// named by action. A nil err passes through unchanged.
func wrapOutcome(action soloerr.Kind, kind, namespace, name string, err error) error {
	if err == nil {
		return nil
	}
	status := statusOf(err)
	if status == 404 || apierrors.IsNotFound(err) {
		return soloerr.ResourceNotFound(kind, namespace, name)
	}
	if status > 202 {
		return soloerr.ResourceOutcome(action, kind, namespace, name, status, err)
	}
	return soloerr.KubeAPI(status, err)
}

func wrapRead(kind, namespace, name string, err error) error {
	return wrapOutcome(soloerr.KindResourceRead, kind, namespace, name, err)
}

func wrapCreate(kind, namespace, name string, err error) error {
	return wrapOutcome(soloerr.KindResourceCreate, kind, namespace, name, err)
}

func wrapUpdate(kind, namespace, name string, err error) error {
	return wrapOutcome(soloerr.KindResourceUpdate, kind, namespace, name, err)
}

func wrapDelete(kind, namespace, name string, err error) error {
	if err == nil {
		return nil
	}
	if apierrors.IsNotFound(err) {
		return nil
	}
	return wrapOutcome(soloerr.KindResourceDelete, kind, namespace, name, err)
}

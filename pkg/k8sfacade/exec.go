package k8sfacade

import (
	"bytes"
	"context"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Exec runs command inside ref's container and returns its combined
// stdout/stderr, the SPDY-executor pattern grounded in the teacher's
// connectivity.go in-cluster probe.
func (f *Facade) Exec(ctx context.Context, ref ContainerRef, command []string) (stdout, stderr string, err error) {
	req := f.clientSet.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(ref.ParentRef.Name).
		Namespace(ref.ParentRef.Namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: ref.Name,
			Command:   command,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	executor, execErr := remotecommand.NewSPDYExecutor(f.cfg, "POST", req.URL())
	if execErr != nil {
		return "", "", soloerr.Configuration("creating exec stream for %s/%s: %v", ref.ParentRef.Namespace, ref.ParentRef.Name, execErr)
	}

	var outBuf, errBuf bytes.Buffer
	streamErr := executor.StreamWithContext(ctx, remotecommand.StreamOptions{Stdout: &outBuf, Stderr: &errBuf})
	if streamErr != nil {
		return outBuf.String(), errBuf.String(), soloerr.KubeAPI(0, streamErr)
	}
	return outBuf.String(), errBuf.String(), nil
}

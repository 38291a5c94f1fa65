package k8sfacade

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Handle is a live port-forward tunnel. The facade owns no global state
// across handles (spec §4.F "Port-forward lifecycle").
type Handle struct {
	stopCh  chan struct{}
	readyCh chan struct{}
	doneCh  chan error
}

// PortForward opens a tunnel from localPort to podPort on the named pod,
// generalizing the teacher's portforward.go into a stoppable Handle.
func (f *Facade) PortForward(ref Ref, localPort, podPort int, out, errOut io.Writer) (*Handle, error) {
	path := fmt.Sprintf("/api/v1/namespaces/%s/pods/%s/portforward", ref.Namespace, ref.Name)
	u, err := url.Parse(f.cfg.Host + path)
	if err != nil {
		return nil, soloerr.Configuration("building port-forward URL: %v", err)
	}

	transport, upgrader, err := spdy.RoundTripperFor(f.cfg)
	if err != nil {
		return nil, soloerr.Configuration("building SPDY transport: %v", err)
	}
	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, u)

	h := &Handle{
		stopCh:  make(chan struct{}),
		readyCh: make(chan struct{}),
		doneCh:  make(chan error, 1),
	}

	ports := []string{fmt.Sprintf("%d:%d", localPort, podPort)}
	fw, err := portforward.New(dialer, ports, h.stopCh, h.readyCh, out, errOut)
	if err != nil {
		return nil, soloerr.Configuration("constructing port forwarder: %v", err)
	}

	go func() { h.doneCh <- fw.ForwardPorts() }()
	return h, nil
}

// Stop signals the tunnel to close, waiting up to timeout for it to do so.
// It is retried up to maxAttempts times should the first signal race a
// tunnel that has not yet become ready.
func (h *Handle) Stop(maxAttempts int, timeout time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-h.stopCh:
			// already closed by a previous attempt
		default:
			close(h.stopCh)
		}
		select {
		case err := <-h.doneCh:
			return err
		case <-time.After(timeout):
			lastErr = soloerr.IllegalState("port-forward did not stop within %s (attempt %d/%d)", timeout, attempt+1, maxAttempts)
		}
	}
	return lastErr
}

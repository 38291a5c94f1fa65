package k8sfacade

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// ContextsFacade manages kubeconfig context metadata and the
// testContextConnection probe (spec §4.F "Context testing").
type ContextsFacade struct {
	f              *Facade
	kubeconfigPath string
}

// List returns the names of every context in the loaded kubeconfig.
func (c *ContextsFacade) List() ([]string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if c.kubeconfigPath != "" {
		rules.ExplicitPath = c.kubeconfigPath
	}
	raw, err := rules.Load()
	if err != nil {
		return nil, soloerr.Configuration("loading kubeconfig: %v", err)
	}
	names := make([]string, 0, len(raw.Contexts))
	for name := range raw.Contexts {
		names = append(names, name)
	}
	return names, nil
}

// TestContextConnection implements spec §4.F's "testContextConnection":
// it builds a separate facade for ctxName and attempts a one-item
// namespace list through it, returning a boolean rather than propagating
// the underlying error. No current context is switched, so there is
// nothing to restore on success or failure.
func TestContextConnection(ctx context.Context, kubeconfigPath, ctxName string) bool {
	facade, err := New(kubeconfigPath, ctxName)
	if err != nil {
		return false
	}
	_, err = facade.clientSet.CoreV1().Namespaces().List(ctx, metav1.ListOptions{Limit: 1})
	return err == nil
}

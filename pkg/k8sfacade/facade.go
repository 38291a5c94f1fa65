package k8sfacade

import (
	apiextensionsclientset "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
)

// Facade is one kube-context's Kubernetes Abstraction Facade: it caches a
// single client per context and is not reused across contexts
// concurrently (spec §5 "Shared-resource policy").
type Facade struct {
	ContextName string

	cfg             *rest.Config
	clientSet       kubernetes.Interface
	dynamicClient   dynamic.Interface
	discoveryClient discovery.DiscoveryInterface
	apiextensions   apiextensionsclientset.Interface

	Namespaces     *NamespacesFacade
	Pods           *PodsFacade
	Services       *ServicesFacade
	ConfigMaps     *ConfigMapsFacade
	Secrets        *SecretsFacade
	PVCs           *PVCsFacade
	Leases         *LeasesFacade
	Ingresses      *IngressesFacade
	IngressClasses *IngressClassesFacade
	Contexts       *ContextsFacade
	Clusters       *ClustersFacade
	Containers     *ContainersFacade
	CRDs           *CRDsFacade
}

// New builds a Facade for the named kubeconfig context. An empty
// contextName uses the kubeconfig's current-context.
func New(kubeconfigPath, contextName string) (*Facade, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		loadingRules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{}
	if contextName != "" {
		overrides.CurrentContext = contextName
	}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	cfg, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, soloerr.Configuration("loading kube config for context %q: %v", contextName, err)
	}

	clientSet, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, soloerr.Configuration("building clientset for context %q: %v", contextName, err)
	}
	dynamicClient, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, soloerr.Configuration("building dynamic client for context %q: %v", contextName, err)
	}
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, soloerr.Configuration("building discovery client for context %q: %v", contextName, err)
	}
	apiext, err := apiextensionsclientset.NewForConfig(cfg)
	if err != nil {
		return nil, soloerr.Configuration("building apiextensions client for context %q: %v", contextName, err)
	}

	f := &Facade{
		ContextName:     contextName,
		cfg:             cfg,
		clientSet:       clientSet,
		dynamicClient:   dynamicClient,
		discoveryClient: discoveryClient,
		apiextensions:   apiext,
	}
	f.Namespaces = &NamespacesFacade{f: f}
	f.Pods = &PodsFacade{f: f}
	f.Services = &ServicesFacade{f: f}
	f.ConfigMaps = &ConfigMapsFacade{f: f}
	f.Secrets = &SecretsFacade{f: f}
	f.PVCs = &PVCsFacade{f: f}
	f.Leases = &LeasesFacade{f: f}
	f.Ingresses = &IngressesFacade{f: f}
	f.IngressClasses = &IngressClassesFacade{f: f}
	f.Contexts = &ContextsFacade{f: f, kubeconfigPath: kubeconfigPath}
	f.Clusters = &ClustersFacade{f: f}
	f.Containers = &ContainersFacade{f: f}
	f.CRDs = &CRDsFacade{f: f}
	return f, nil
}

// NewForTesting wires a Facade around already-constructed fake clients,
// bypassing kubeconfig loading (used by tests and by New's apiextensions-
// free callers, e.g. a fake dynamic/clientset pair from client-go/fake).
func NewForTesting(contextName string, clientSet kubernetes.Interface, dynamicClient dynamic.Interface) *Facade {
	f := &Facade{ContextName: contextName, clientSet: clientSet, dynamicClient: dynamicClient}
	f.Namespaces = &NamespacesFacade{f: f}
	f.Pods = &PodsFacade{f: f}
	f.Services = &ServicesFacade{f: f}
	f.ConfigMaps = &ConfigMapsFacade{f: f}
	f.Secrets = &SecretsFacade{f: f}
	f.PVCs = &PVCsFacade{f: f}
	f.Leases = &LeasesFacade{f: f}
	f.Ingresses = &IngressesFacade{f: f}
	f.IngressClasses = &IngressClassesFacade{f: f}
	f.Contexts = &ContextsFacade{f: f}
	f.Clusters = &ClustersFacade{f: f}
	f.Containers = &ContainersFacade{f: f}
	return f
}

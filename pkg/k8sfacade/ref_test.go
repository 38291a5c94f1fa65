package k8sfacade_test

import (
	"testing"

	"github.com/hashgraph/solo-sub009/pkg/k8sfacade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefAcceptsValidLabels(t *testing.T) {
	ref, err := k8sfacade.NewRef("solo", "my-deployment-0")
	require.NoError(t, err)
	assert.Equal(t, "solo", ref.Namespace)
	assert.Equal(t, "my-deployment-0", ref.Name)
}

func TestNewRefRejectsInvalidNames(t *testing.T) {
	cases := []struct{ namespace, name string }{
		{"Solo", "node-0"},       // uppercase
		{"solo", "-node-0"},      // leading hyphen
		{"solo", "node-0-"},      // trailing hyphen
		{"solo", ""},             // empty
		{"solo", "node_0"},       // underscore
	}
	for _, c := range cases {
		_, err := k8sfacade.NewRef(c.namespace, c.name)
		assert.Error(t, err, "expected %q/%q to be rejected", c.namespace, c.name)
	}
}

func TestNewContainerRefValidatesContainerName(t *testing.T) {
	parent, err := k8sfacade.NewRef("solo", "node-0")
	require.NoError(t, err)

	_, err = k8sfacade.NewContainerRef(parent, "Root")
	assert.Error(t, err)

	ref, err := k8sfacade.NewContainerRef(parent, "root")
	require.NoError(t, err)
	assert.Equal(t, "root", ref.Name)
	assert.Equal(t, parent, ref.ParentRef)
}

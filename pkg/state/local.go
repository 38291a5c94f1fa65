// Package state implements Solo's Local & Remote State Models (spec §4.E):
// the per-user local configuration document and the per-deployment remote
// state persisted in-cluster, both schema-versioned via pkg/schema.
package state

import (
	"context"

	"github.com/hashgraph/solo-sub009/internal/soloerr"
	"github.com/hashgraph/solo-sub009/pkg/schema"
	"github.com/hashgraph/solo-sub009/pkg/storage"
)

// DeploymentConfig is one entry of the local state's deployments map.
type DeploymentConfig struct {
	Clusters  []string `json:"clusters"`
	Namespace string   `json:"namespace"`
	Realm     int      `json:"realm"`
	Shard     int      `json:"shard"`
}

// LocalDocument is the schema-versioned shape persisted to
// local-config.yaml.
type LocalDocument struct {
	SchemaVersion    int                         `json:"schemaVersion"`
	UserEmailAddress string                      `json:"userEmailAddress"`
	SoloVersion      string                      `json:"soloVersion"`
	Deployments      map[string]DeploymentConfig `json:"deployments"`
	ClusterRefs      map[string]string           `json:"clusterRefs"`
}

// LocalSchema is the Local State schema (spec §9 open-question
// resolution: v0 was never schema-versioned; v0->v1 only stamps
// schemaVersion:1, no other field changes).
var LocalSchema = &schema.Schema{
	Name:    "local-config",
	Version: 1,
	Migrations: []schema.Migration{
		{
			FromVersion:        0,
			ToVersionExclusive: 1,
			ResultVersion:      1,
			Apply: func(data map[string]any) (map[string]any, error) {
				return data, nil
			},
		},
	},
}

func init() {
	if err := schema.ValidateMigrations(LocalSchema); err != nil {
		panic(err)
	}
}

// LocalStateKey is the storage key local state is persisted under.
const LocalStateKey = "local-config.yaml"

// LocalState owns the single per-user document; only this process writes
// it (spec §3 "Ownership & lifecycle").
type LocalState struct {
	backend *storage.ObjectBackend
}

// NewLocalState constructs a LocalState over backend.
func NewLocalState(backend *storage.ObjectBackend) *LocalState {
	return &LocalState{backend: backend}
}

// ConfigFileExists reports whether the backing document has been created.
func (s *LocalState) ConfigFileExists(ctx context.Context) (bool, error) {
	return storage.Exists(ctx, s.backend.Backend, LocalStateKey)
}

// Create writes a fresh, empty-but-valid document for userEmail/version.
func (s *LocalState) Create(ctx context.Context, userEmail, version string) (*LocalDocument, error) {
	doc := &LocalDocument{
		SchemaVersion:    LocalSchema.Version,
		UserEmailAddress: userEmail,
		SoloVersion:      version,
		Deployments:      map[string]DeploymentConfig{},
		ClusterRefs:      map[string]string{},
	}
	if err := s.Write(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Read loads the document, migrating it forward if necessary. Absent a
// file, Read returns an empty-but-valid document rather than failing
// (spec §4.E: "without [create], reads return an empty-but-valid
// document").
func (s *LocalState) Read(ctx context.Context) (*LocalDocument, error) {
	exists, err := s.ConfigFileExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &LocalDocument{
			SchemaVersion: LocalSchema.Version,
			Deployments:   map[string]DeploymentConfig{},
			ClusterRefs:   map[string]string{},
		}, nil
	}

	var raw map[string]any
	if err := s.backend.ReadObject(ctx, LocalStateKey, &raw); err != nil {
		return nil, err
	}
	var doc LocalDocument
	if err := schema.Transform(LocalSchema, raw, &doc); err != nil {
		return nil, err
	}
	if doc.Deployments == nil {
		doc.Deployments = map[string]DeploymentConfig{}
	}
	if doc.ClusterRefs == nil {
		doc.ClusterRefs = map[string]string{}
	}
	return &doc, nil
}

// Write validates and persists doc in full.
func (s *LocalState) Write(ctx context.Context, doc *LocalDocument) error {
	if err := validateLocalDocument(doc); err != nil {
		return err
	}
	doc.SchemaVersion = LocalSchema.Version
	return s.backend.WriteObject(ctx, LocalStateKey, doc)
}

// SetUserEmailAddress mutates and persists the user's email.
func (s *LocalState) SetUserEmailAddress(ctx context.Context, email string) error {
	doc, err := s.Read(ctx)
	if err != nil {
		return err
	}
	doc.UserEmailAddress = email
	return s.Write(ctx, doc)
}

// SetDeployments replaces the full deployments map.
func (s *LocalState) SetDeployments(ctx context.Context, deployments map[string]DeploymentConfig) error {
	doc, err := s.Read(ctx)
	if err != nil {
		return err
	}
	doc.Deployments = deployments
	return s.Write(ctx, doc)
}

// SetClusterRefs replaces the full clusterRef->context map.
func (s *LocalState) SetClusterRefs(ctx context.Context, refs map[string]string) error {
	doc, err := s.Read(ctx)
	if err != nil {
		return err
	}
	doc.ClusterRefs = refs
	return s.Write(ctx, doc)
}

// SetSoloVersion updates the recorded solo binary version.
func (s *LocalState) SetSoloVersion(ctx context.Context, version string) error {
	doc, err := s.Read(ctx)
	if err != nil {
		return err
	}
	doc.SoloVersion = version
	return s.Write(ctx, doc)
}

func validateLocalDocument(doc *LocalDocument) error {
	if doc == nil {
		return soloerr.IllegalArgument("local state document must not be nil")
	}
	for name, dep := range doc.Deployments {
		for _, clusterRef := range dep.Clusters {
			if _, ok := doc.ClusterRefs[clusterRef]; !ok {
				return soloerr.IllegalState("deployment %q references unknown clusterRef %q", name, clusterRef)
			}
		}
	}
	return nil
}

package persist

import "encoding/json"

// manifestNamespace is the Backend namespace RunManifests are stored
// under.
const manifestNamespace = "manifest"

// ManifestStore persists RunManifest records, keyed by run ID. Adapted
// from summarydb's MetadataStore (PutDB/GetDB, PutStream/GetStream)
// generalized into a single record type behind Backend rather than a
// bespoke db-blob-plus-per-stream-blob shape, since anytime inference
// has one manifest kind, not summarydb's DB-vs-stream split.
type ManifestStore struct {
	backend Backend
}

// NewManifestStore wraps a Backend as a ManifestStore.
func NewManifestStore(backend Backend) *ManifestStore {
	return &ManifestStore{backend: backend}
}

// PutManifest stores or overwrites the manifest for runID.
func (m *ManifestStore) PutManifest(runID string, manifest RunManifest) error {
	buf, err := json.Marshal(manifest)
	if err != nil {
		return err
	}
	return m.backend.Put(manifestNamespace, runID, buf)
}

// GetManifest retrieves the manifest for runID. found is false if no
// manifest has been stored for that run.
func (m *ManifestStore) GetManifest(runID string) (manifest RunManifest, found bool, err error) {
	buf, ok, err := m.backend.Get(manifestNamespace, runID)
	if err != nil || !ok {
		return RunManifest{}, ok, err
	}
	if err := json.Unmarshal(buf, &manifest); err != nil {
		return RunManifest{}, false, err
	}
	return manifest, true, nil
}

// ListManifests returns every manifest currently stored, in no
// particular order.
func (m *ManifestStore) ListManifests() ([]RunManifest, error) {
	var out []RunManifest
	err := m.backend.Iterate(manifestNamespace, func(_ string, value []byte) error {
		var rm RunManifest
		if err := json.Unmarshal(value, &rm); err != nil {
			return err
		}
		out = append(out, rm)
		return nil
	})
	return out, err
}

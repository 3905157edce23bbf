package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otm-exchange/otmctl/internal/platform"
	"github.com/otm-exchange/otmctl/internal/result"
	"github.com/otm-exchange/otmctl/internal/schema"
)

const acmeDoc = `otmVersion: "0.2.0"
project:
  id: acme-app
  name: Acme App
trustZones:
  - id: internet
    name: Internet
    risk:
      trustRating: 1
components:
  - id: web
    name: Web
    type: web-service
    parent:
      trustZone: internet
`

const remoteUUID = "7f65b2c4-08a1-4f9e-9d8a-2b9a6a3c1d42"

type fakePlatform struct {
	createErr  error
	createInfo *platform.ProjectInfo
	updateInfo *platform.ProjectInfo
	updateErr  error

	createCalls int
	updateCalls int
	lastRef     string
}

func (f *fakePlatform) CreateProject(ctx context.Context, doc []byte) (*platform.ProjectInfo, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createInfo, nil
}

func (f *fakePlatform) UpdateProject(ctx context.Context, ref string, doc []byte) (*platform.ProjectInfo, error) {
	f.updateCalls++
	f.lastRef = ref
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateInfo, nil
}

type fakeChecker struct {
	exists bool
	uuid   string
	err    error
	calls  int
	lastID string
}

func (f *fakeChecker) ExistsByID(ctx context.Context, id string) (bool, string, error) {
	f.calls++
	f.lastID = id
	return f.exists, f.uuid, f.err
}

func TestImportCreatesNewProject(t *testing.T) {
	p := &fakePlatform{createInfo: &platform.ProjectInfo{ID: "acme-app", Name: "Acme App"}}
	c := &fakeChecker{}
	eng := New(p, c, nil, nil)

	res, err := eng.Import(context.Background(), []byte(acmeDoc), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, result.ActionCreated, res.Action)
	assert.Equal(t, "acme-app", res.ID)
	assert.Equal(t, 1, p.createCalls)
	assert.Equal(t, 0, p.updateCalls)
	assert.Equal(t, 0, c.calls)
}

func TestImportConflictResolvesToUpdate(t *testing.T) {
	p := &fakePlatform{
		createErr:  &platform.ConflictError{Message: "project already exists"},
		updateInfo: &platform.ProjectInfo{ID: "acme-app", Name: "Acme App", UUID: remoteUUID},
	}
	c := &fakeChecker{exists: true, uuid: remoteUUID}
	eng := New(p, c, nil, nil)

	res, err := eng.Import(context.Background(), []byte(acmeDoc), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, result.ActionUpdated, res.Action)
	assert.Equal(t, remoteUUID, res.UUID)
	assert.Equal(t, "acme-app", c.lastID)
	assert.Equal(t, remoteUUID, p.lastRef)
	assert.Equal(t, 1, p.createCalls)
	assert.Equal(t, 1, p.updateCalls)
}

func TestImportConflictWithoutIDMatchIsNameConflict(t *testing.T) {
	p := &fakePlatform{createErr: &platform.ConflictError{Message: "name taken"}}
	c := &fakeChecker{exists: false}
	eng := New(p, c, nil, nil)

	_, err := eng.Import(context.Background(), []byte(acmeDoc), DefaultOptions())

	var nameConflict *NameConflictError
	require.ErrorAs(t, err, &nameConflict)
	assert.Equal(t, "acme-app", nameConflict.ProjectID)
	assert.Equal(t, 0, p.updateCalls, "no remote mutation on a name conflict")
}

func TestImportConflictWithAutoUpdateDisabled(t *testing.T) {
	p := &fakePlatform{createErr: &platform.ConflictError{Message: "exists"}}
	c := &fakeChecker{exists: true, uuid: remoteUUID}
	eng := New(p, c, nil, nil)

	opts := DefaultOptions()
	opts.AutoUpdate = false
	_, err := eng.Import(context.Background(), []byte(acmeDoc), opts)

	var nameConflict *NameConflictError
	require.ErrorAs(t, err, &nameConflict)
	assert.Equal(t, 0, c.calls, "existence check skipped when auto-update is off")
	assert.Equal(t, 0, p.updateCalls)
}

func TestImportExplicitUpdateTargetSkipsCreate(t *testing.T) {
	p := &fakePlatform{updateInfo: &platform.ProjectInfo{ID: "acme-app", UUID: remoteUUID}}
	eng := New(p, &fakeChecker{}, nil, nil)

	opts := DefaultOptions()
	opts.UpdateRef = "U2"
	res, err := eng.Import(context.Background(), []byte(acmeDoc), opts)
	require.NoError(t, err)

	assert.Equal(t, result.ActionUpdated, res.Action)
	assert.Equal(t, "U2", p.lastRef)
	assert.Equal(t, 0, p.createCalls, "create never attempted with an explicit target")
}

func TestImportValidationFailureShortCircuits(t *testing.T) {
	p := &fakePlatform{}
	v, err := schema.NewSchemaValidator()
	require.NoError(t, err)
	eng := New(p, &fakeChecker{}, v, nil)

	_, err = eng.Import(context.Background(), []byte("otmVersion: \"0.2.0\"\nproject:\n  name: no id\n"), DefaultOptions())

	var vErr *ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	assert.NotEmpty(t, vErr.Errors)
	assert.Equal(t, 0, p.createCalls, "invalid document never reaches the platform")
}

func TestImportIdentityIndeterminate(t *testing.T) {
	p := &fakePlatform{createErr: &platform.ConflictError{Message: "exists"}}
	eng := New(p, &fakeChecker{}, nil, nil)

	_, err := eng.Import(context.Background(), []byte("components: []\n"), DefaultOptions())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestImportTransportErrorSurfacedVerbatim(t *testing.T) {
	boom := &platform.StatusError{Op: "create project", Status: 502, Body: "bad gateway"}
	p := &fakePlatform{createErr: boom}
	eng := New(p, &fakeChecker{}, nil, nil)

	_, err := eng.Import(context.Background(), []byte(acmeDoc), DefaultOptions())

	var statusErr *platform.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 502, statusErr.Status)
}

func TestImportMalformedUUIDFromChecker(t *testing.T) {
	p := &fakePlatform{createErr: &platform.ConflictError{Message: "exists"}}
	c := &fakeChecker{exists: true, uuid: "not-a-uuid"}
	eng := New(p, c, nil, nil)

	_, err := eng.Import(context.Background(), []byte(acmeDoc), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed uuid")
	assert.Equal(t, 0, p.updateCalls)
}

func TestImportResetLayoutStripsBeforeSubmission(t *testing.T) {
	var submitted []byte
	p := &fakePlatform{createInfo: &platform.ProjectInfo{ID: "acme-app"}}
	eng := New(&capturingPlatform{fakePlatform: p, submitted: &submitted}, &fakeChecker{}, nil, nil)

	doc := acmeDoc + "representations:\n  - name: canvas\n    id: canvas\n"
	opts := DefaultOptions()
	opts.ResetLayout = true
	_, err := eng.Import(context.Background(), []byte(doc), opts)
	require.NoError(t, err)
	require.NotEmpty(t, submitted)
	assert.NotContains(t, string(submitted), "representations:")
	assert.Contains(t, string(submitted), "acme-app")
}

// capturingPlatform records the document actually sent to the platform.
type capturingPlatform struct {
	*fakePlatform
	submitted *[]byte
}

func (c *capturingPlatform) CreateProject(ctx context.Context, doc []byte) (*platform.ProjectInfo, error) {
	*c.submitted = doc
	return c.fakePlatform.CreateProject(ctx, doc)
}

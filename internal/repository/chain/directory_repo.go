package chain

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/vedran77/devfolio/internal/domain"
	"github.com/vedran77/devfolio/internal/sui"
)

// ObjectReader is the subset of the Sui client the directory needs.
type ObjectReader interface {
	GetObject(ctx context.Context, id string) (sui.ObjectResponse, error)
	MultiGetObjects(ctx context.Context, ids []string) ([]sui.ObjectResponse, error)
	GetDynamicFields(ctx context.Context, parentID string) ([]sui.DynamicFieldInfo, error)
}

// DirectoryRepo implements repository.DirectoryRepository on top of Sui
// objects.
type DirectoryRepo struct {
	reader      ObjectReader
	dashboardID domain.ObjectID
	logger      *zap.Logger
}

func NewDirectoryRepo(reader ObjectReader, dashboardID domain.ObjectID, logger *zap.Logger) *DirectoryRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryRepo{reader: reader, dashboardID: dashboardID, logger: logger}
}

// Dashboard returns an empty dashboard when the object is missing or is not
// a dashboard.
func (r *DirectoryRepo) Dashboard(ctx context.Context) (domain.DashboardFields, error) {
	resp, err := r.reader.GetObject(ctx, r.dashboardID)
	if err != nil {
		return domain.DashboardFields{}, err
	}

	d, ok := decode[domain.DashboardFields](resp.Content(), "verified_profiles")
	if !ok {
		r.logger.Warn("dashboard object unrecognized", zap.String("id", r.dashboardID))
		return domain.DashboardFields{VerifiedProfiles: []domain.ObjectID{}}, nil
	}
	if d.VerifiedProfiles == nil {
		d.VerifiedProfiles = []domain.ObjectID{}
	}
	return d, nil
}

func (r *DirectoryRepo) Profiles(ctx context.Context, ids []domain.ObjectID) ([]domain.ProfileFields, error) {
	return fetchAll[domain.ProfileFields](ctx, r, ids, "owner", nil)
}

func (r *DirectoryRepo) Projects(ctx context.Context, ids []domain.ObjectID) ([]domain.ProjectFields, error) {
	return fetchAll(ctx, r, ids, "owner", liftVotersTable)
}

// Project returns nil when the object is absent or not a project.
func (r *DirectoryRepo) Project(ctx context.Context, id domain.ObjectID) (*domain.ProjectFields, error) {
	resp, err := r.reader.GetObject(ctx, id)
	if err != nil {
		return nil, err
	}
	c := resp.Content()
	p, ok := decode[domain.ProjectFields](c, "owner")
	if !ok {
		return nil, nil
	}
	liftVotersTable(&p, c.Fields)
	return &p, nil
}

func (r *DirectoryRepo) Certificates(ctx context.Context, ids []domain.ObjectID) ([]domain.CertificateFields, error) {
	return fetchAll[domain.CertificateFields](ctx, r, ids, "owner", nil)
}

// VoterAddresses lists the address-typed keys of a voters table. Keys of
// any other type are skipped.
func (r *DirectoryRepo) VoterAddresses(ctx context.Context, tableID domain.ObjectID) ([]domain.Address, error) {
	fields, err := r.reader.GetDynamicFields(ctx, tableID)
	if err != nil {
		return nil, err
	}

	voters := make([]domain.Address, 0, len(fields))
	for _, f := range fields {
		if addr, ok := f.Name.Address(); ok {
			voters = append(voters, addr)
		}
	}
	return voters, nil
}

// fetchAll batch-fetches ids and keeps, in fetch order, the entries that
// decode as T. One bad entry never fails the batch.
func fetchAll[T any](ctx context.Context, r *DirectoryRepo, ids []domain.ObjectID, required string, fix func(*T, json.RawMessage)) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	resps, err := r.reader.MultiGetObjects(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(resps))
	for i, resp := range resps {
		c := resp.Content()
		v, ok := decode[T](c, required)
		if !ok {
			id := c.ObjectID
			if id == "" && i < len(ids) {
				id = ids[i]
			}
			r.logger.Debug("skipping unrecognized object",
				zap.String("id", id),
				zap.Stringer("kind", c.Kind),
			)
			continue
		}
		if fix != nil {
			fix(&v, c.Fields)
		}
		out = append(out, v)
	}
	return out, nil
}

// decode is the schema check: the content must be a move object whose fields
// carry the required key and unmarshal into T.
func decode[T any](c sui.Content, required string) (T, bool) {
	var v T
	if c.Kind != sui.ContentMoveObject {
		return v, false
	}
	if !gjson.GetBytes(c.Fields, required).Exists() {
		return v, false
	}
	if err := json.Unmarshal(c.Fields, &v); err != nil {
		return v, false
	}
	return v, true
}

// liftVotersTable copies voters.fields.id.id into VotersTableID.
func liftVotersTable(p *domain.ProjectFields, fields json.RawMessage) {
	p.VotersTableID = gjson.GetBytes(fields, "voters.fields.id.id").String()
}

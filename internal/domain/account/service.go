package account

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"

	"cfb-poll/internal/domain/user"
)

var (
	ErrNothingToUpdate   = errors.New("at least one field must be provided for update")
	ErrInvalidURL        = errors.New("outlet url must be an http or https address")
	ErrInvalidFollowers  = errors.New("podcast followers cannot be negative")
	ErrUnknownUserType   = errors.New("user type not found")
	ErrUnknownTeam       = errors.New("favorite team not found")
	ErrHandleRequired    = errors.New("handle is required")
	ErrUnknownSocialType = errors.New("social media type not found")
	ErrDuplicateHandle   = errors.New("handle already added for this social media type")
	ErrHandleNotFound    = errors.New("handle not found")
)

// Credentials is the part of the user service that owns the login record.
type Credentials interface {
	Get(ctx context.Context, id int64) (*user.User, error)
	ChangeEmail(ctx context.Context, id int64, email string) (bool, error)
	ChangePassword(ctx context.Context, id int64, password string) error
}

// View is what the account page shows. Account is nil until the user saves
// a profile for the first time.
type View struct {
	User    *user.User `json:"user"`
	Account *Profile   `json:"account"`
}

type Service struct {
	repo  Repository
	creds Credentials
}

func NewService(repo Repository, creds Credentials) *Service {
	return &Service{repo: repo, creds: creds}
}

func (s *Service) Get(ctx context.Context, userID int64) (*View, error) {
	u, err := s.creds.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &View{User: u}, nil
	}
	if err != nil {
		return nil, err
	}
	return &View{User: u, Account: p}, nil
}

// Update applies a partial change. Everything is validated before anything
// is written; the profile is saved first and the email change goes last
// since it sends mail. The flag reports whether the email changed, which
// leaves the account unverified.
func (s *Service) Update(ctx context.Context, userID int64, upd Update) (*View, bool, error) {
	if err := s.validate(ctx, upd); err != nil {
		return nil, false, err
	}

	if upd.touchesProfile() {
		p, err := s.repo.GetProfile(ctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := s.creds.Get(ctx, userID); err != nil {
				return nil, false, err
			}
			p, err = &Profile{UserID: userID}, nil
		}
		if err != nil {
			return nil, false, err
		}
		p.apply(upd)
		if err := s.repo.SaveProfile(ctx, p); err != nil {
			return nil, false, err
		}
	}

	if upd.Password != nil {
		if err := s.creds.ChangePassword(ctx, userID, *upd.Password); err != nil {
			return nil, false, err
		}
	}

	var emailChanged bool
	if upd.Email != nil {
		changed, err := s.creds.ChangeEmail(ctx, userID, *upd.Email)
		if err != nil {
			return nil, false, err
		}
		emailChanged = changed
	}

	v, err := s.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return v, emailChanged, nil
}

func (s *Service) validate(ctx context.Context, upd Update) error {
	if upd.empty() {
		return ErrNothingToUpdate
	}
	if upd.Password != nil {
		if err := user.CheckPassword(*upd.Password); err != nil {
			return err
		}
	}
	if upd.Email != nil {
		if _, err := user.CheckEmail(*upd.Email); err != nil {
			return err
		}
	}
	if upd.PodcastFollowers != nil && *upd.PodcastFollowers < 0 {
		return ErrInvalidFollowers
	}
	for _, o := range []*OutletUpdate{upd.Podcast, upd.SportsMedia, upd.SportsBroadcast} {
		if o == nil || o.URL == nil {
			continue
		}
		if err := checkURL(*o.URL); err != nil {
			return err
		}
	}
	if upd.UserTypeID != nil && *upd.UserTypeID != 0 {
		types, err := s.repo.ListUserTypes(ctx)
		if err != nil {
			return err
		}
		known := false
		for _, t := range types {
			known = known || t.ID == *upd.UserTypeID
		}
		if !known {
			return ErrUnknownUserType
		}
	}
	return nil
}

// checkURL accepts an empty string, which clears the outlet URL.
func checkURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// apply merges a validated update. A zero team or user type ID clears it.
func (p *Profile) apply(upd Update) {
	if upd.FavoriteTeamID != nil {
		p.FavoriteTeamID = optionalID(*upd.FavoriteTeamID)
		p.FavoriteTeamName = ""
	}
	if upd.UserTypeID != nil {
		p.UserTypeID = optionalID(*upd.UserTypeID)
		p.UserType = ""
	}
	if upd.PodcastFollowers != nil {
		n := *upd.PodcastFollowers
		p.PodcastFollowers = &n
	}
	p.Podcast.apply(upd.Podcast)
	p.SportsMedia.apply(upd.SportsMedia)
	p.SportsBroadcast.apply(upd.SportsBroadcast)
}

// apply turns the outlet on when a URL arrives without an explicit flag.
// Switching it off clears the URL, and any URL change drops verification.
func (o *Outlet) apply(upd *OutletUpdate) {
	if upd == nil {
		return
	}
	if upd.URL != nil {
		next := strings.TrimSpace(*upd.URL)
		if next != o.URL {
			o.URL = next
			o.Verified = false
		}
	}
	switch {
	case upd.Active != nil:
		o.Active = *upd.Active
	case upd.URL != nil && o.URL != "":
		o.Active = true
	}
	if !o.Active {
		o.URL = ""
		o.Verified = false
	}
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func (s *Service) UserTypes(ctx context.Context) ([]UserType, error) {
	return s.repo.ListUserTypes(ctx)
}

func (s *Service) SocialTypes(ctx context.Context) ([]SocialType, error) {
	return s.repo.ListSocialTypes(ctx)
}

func (s *Service) Handles(ctx context.Context, userID int64) ([]Handle, error) {
	return s.repo.ListHandles(ctx, userID)
}

// AddHandle stores a handle. Handles are unique per user and type ignoring
// case.
func (s *Service) AddHandle(ctx context.Context, userID, typeID int64, handle string) (*Handle, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, ErrHandleRequired
	}
	if typeID <= 0 {
		return nil, ErrUnknownSocialType
	}
	h := &Handle{UserID: userID, Handle: handle, TypeID: typeID}
	if err := s.repo.AddHandle(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) RemoveHandle(ctx context.Context, userID, id int64) error {
	err := s.repo.DeleteHandle(ctx, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHandleNotFound
	}
	return err
}

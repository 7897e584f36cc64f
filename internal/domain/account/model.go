package account

import "context"

// Outlet is a media presence a voter can claim. Verified is set by staff and
// drops whenever the URL changes or the outlet is switched off.
type Outlet struct {
	Active   bool   `json:"active"`
	URL      string `json:"url,omitempty"`
	Verified bool   `json:"verified"`
}

// Profile is the optional voter profile kept next to the login record. A
// user without a stored profile reads as the zero Profile.
type Profile struct {
	UserID           int64  `json:"-"`
	FavoriteTeamID   *int64 `json:"favorite_team_id"`
	FavoriteTeamName string `json:"favorite_team_name,omitempty"`
	UserTypeID       *int64 `json:"user_type_id"`
	UserType         string `json:"user_type,omitempty"`
	Podcast          Outlet `json:"podcast"`
	PodcastFollowers *int64 `json:"podcast_followers"`
	SportsMedia      Outlet `json:"sports_media"`
	SportsBroadcast  Outlet `json:"sports_broadcast"`
}

// OutletUpdate changes an outlet. Nil fields are left alone.
type OutletUpdate struct {
	Active *bool   `json:"active"`
	URL    *string `json:"url"`
}

// Update is a partial profile change. Email and Password are handed to the
// user service; everything else lands on the profile.
type Update struct {
	Email            *string       `json:"email"`
	Password         *string       `json:"password"`
	FavoriteTeamID   *int64        `json:"favorite_team_id"`
	UserTypeID       *int64        `json:"user_type_id"`
	Podcast          *OutletUpdate `json:"podcast"`
	PodcastFollowers *int64        `json:"podcast_followers"`
	SportsMedia      *OutletUpdate `json:"sports_media"`
	SportsBroadcast  *OutletUpdate `json:"sports_broadcast"`
}

func (u Update) empty() bool {
	return u.Email == nil && u.Password == nil && !u.touchesProfile()
}

func (u Update) touchesProfile() bool {
	return u.FavoriteTeamID != nil || u.UserTypeID != nil || u.Podcast != nil ||
		u.PodcastFollowers != nil || u.SportsMedia != nil || u.SportsBroadcast != nil
}

type UserType struct {
	ID   int64  `json:"id"`
	Name string `json:"user_type"`
}

type SocialType struct {
	ID   int64  `json:"id"`
	Name string `json:"social_media_type"`
}

type Handle struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"-"`
	Handle   string `json:"handle"`
	TypeID   int64  `json:"social_media_type_id"`
	TypeName string `json:"social_media_type"`
}

type Repository interface {
	// GetProfile returns sql.ErrNoRows when the user never saved a profile.
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	SaveProfile(ctx context.Context, p *Profile) error

	ListUserTypes(ctx context.Context) ([]UserType, error)
	ListSocialTypes(ctx context.Context) ([]SocialType, error)

	ListHandles(ctx context.Context, userID int64) ([]Handle, error)
	// AddHandle fills in ID and TypeName.
	AddHandle(ctx context.Context, h *Handle) error
	// DeleteHandle only removes handles owned by userID.
	DeleteHandle(ctx context.Context, userID, id int64) error
}

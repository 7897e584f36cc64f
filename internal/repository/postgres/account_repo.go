package postgres

import (
	"context"
	"database/sql"

	"cfb-poll/internal/domain/account"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) GetProfile(ctx context.Context, userID int64) (*account.Profile, error) {
	var (
		p         = account.Profile{UserID: userID}
		teamID    sql.NullInt64
		teamName  sql.NullString
		typeID    sql.NullInt64
		typeName  sql.NullString
		followers sql.NullInt64
		podcast   sql.NullString
		media     sql.NullString
		broadcast sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
        SELECT a.favorite_team_id, t.name, a.user_type_id, ut.name,
               a.podcast, a.podcast_url, a.podcast_verified, a.podcast_followers,
               a.sports_media, a.sports_media_url, a.sports_media_verified,
               a.sports_broadcast, a.sports_broadcast_url, a.sports_broadcast_verified
        FROM user_accounts a
        LEFT JOIN teams t ON t.id = a.favorite_team_id
        LEFT JOIN user_types ut ON ut.id = a.user_type_id
        WHERE a.user_id = $1
    `, userID).Scan(&teamID, &teamName, &typeID, &typeName,
		&p.Podcast.Active, &podcast, &p.Podcast.Verified, &followers,
		&p.SportsMedia.Active, &media, &p.SportsMedia.Verified,
		&p.SportsBroadcast.Active, &broadcast, &p.SportsBroadcast.Verified)
	if err != nil {
		return nil, err
	}
	p.FavoriteTeamID = nullableID(teamID)
	p.FavoriteTeamName = teamName.String
	p.UserTypeID = nullableID(typeID)
	p.UserType = typeName.String
	p.PodcastFollowers = nullableID(followers)
	p.Podcast.URL = podcast.String
	p.SportsMedia.URL = media.String
	p.SportsBroadcast.URL = broadcast.String
	return &p, nil
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// SaveProfile writes the whole row; concurrent saves for one user are last
// writer wins.
func (r *AccountRepo) SaveProfile(ctx context.Context, p *account.Profile) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO user_accounts (
            user_id, favorite_team_id, user_type_id,
            podcast, podcast_url, podcast_verified, podcast_followers,
            sports_media, sports_media_url, sports_media_verified,
            sports_broadcast, sports_broadcast_url, sports_broadcast_verified
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (user_id) DO UPDATE SET
            favorite_team_id = excluded.favorite_team_id,
            user_type_id = excluded.user_type_id,
            podcast = excluded.podcast,
            podcast_url = excluded.podcast_url,
            podcast_verified = excluded.podcast_verified,
            podcast_followers = excluded.podcast_followers,
            sports_media = excluded.sports_media,
            sports_media_url = excluded.sports_media_url,
            sports_media_verified = excluded.sports_media_verified,
            sports_broadcast = excluded.sports_broadcast,
            sports_broadcast_url = excluded.sports_broadcast_url,
            sports_broadcast_verified = excluded.sports_broadcast_verified,
            updated_at = CURRENT_TIMESTAMP
    `, p.UserID, nullInt(p.FavoriteTeamID), nullInt(p.UserTypeID),
		p.Podcast.Active, nullString(p.Podcast.URL), p.Podcast.Verified, nullInt(p.PodcastFollowers),
		p.SportsMedia.Active, nullString(p.SportsMedia.URL), p.SportsMedia.Verified,
		p.SportsBroadcast.Active, nullString(p.SportsBroadcast.URL), p.SportsBroadcast.Verified)
	if isForeignKeyViolation(err) {
		// The user type is checked up front, so a dangling reference here is
		// the team.
		return account.ErrUnknownTeam
	}
	return err
}

func (r *AccountRepo) ListUserTypes(ctx context.Context) ([]account.UserType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM user_types ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []account.UserType{}
	for rows.Next() {
		var t account.UserType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *AccountRepo) ListSocialTypes(ctx context.Context) ([]account.SocialType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM social_media_types ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := []account.SocialType{}
	for rows.Next() {
		var t account.SocialType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *AccountRepo) ListHandles(ctx context.Context, userID int64) ([]account.Handle, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT h.id, h.handle, h.social_media_type_id, st.name
        FROM social_media_handles h
        JOIN social_media_types st ON st.id = h.social_media_type_id
        WHERE h.user_id = $1
        ORDER BY st.name, h.handle
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	handles := []account.Handle{}
	for rows.Next() {
		h := account.Handle{UserID: userID}
		if err := rows.Scan(&h.ID, &h.Handle, &h.TypeID, &h.TypeName); err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, rows.Err()
}

func (r *AccountRepo) AddHandle(ctx context.Context, h *account.Handle) error {
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO social_media_handles (user_id, social_media_type_id, handle)
        VALUES ($1, $2, $3)
        RETURNING id
    `, h.UserID, h.TypeID, h.Handle).Scan(&h.ID)
	switch {
	case isUniqueViolation(err):
		return account.ErrDuplicateHandle
	case isForeignKeyViolation(err):
		return account.ErrUnknownSocialType
	case err != nil:
		return err
	}
	return r.db.QueryRowContext(ctx, `SELECT name FROM social_media_types WHERE id = $1`, h.TypeID).
		Scan(&h.TypeName)
}

func (r *AccountRepo) DeleteHandle(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM social_media_handles WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package user

import (
	"time"

	"github.com/AlgoRMind/algomind-be/internal/fund"
	"github.com/AlgoRMind/algomind-be/internal/httputil"
	"github.com/AlgoRMind/algomind-be/internal/project"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Email     string    `bun:"email,notnull,unique"`
	Username  string    `bun:"username,notnull"`
	Password  string    `bun:"password,notnull"`
	Birthday  time.Time `bun:"birthday,type:date,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	DeletedAt time.Time `bun:"deleted_at,soft_delete,nullzero"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest caps the password at bcrypt's 72-byte input limit;
// Register also rejects multibyte passwords past it.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
}

// Profile never carries the password hash.
type Profile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Birthday  string `json:"birthday"`
	CreatedAt string `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Username,
		Birthday:  u.Birthday.Format(httputil.DateLayout),
		CreatedAt: u.CreatedAt.Format(httputil.DateTimeLayout),
	}
}

// SignInProfile is a profile with everything the user owns.
type SignInProfile struct {
	Profile
	Projects []project.Summary `json:"projects"`
	Funds    []fund.Summary    `json:"funds"`
}

type Listing struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	StatusCode int     `json:"statusCode"`
	Body       string  `json:"body"`
	User       Profile `json:"user"`
}

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/pkg/auth"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/orm"
	"github.com/shashiranjanraj/canteen/pkg/rbac"
)

// User types accepted at registration.
const (
	UserTypeStudent = "user"
	UserTypeSeller  = "seller"
)

type RegisterInput struct {
	Username             string `json:"username"              validate:"required,alpha_dash,max=150"`
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Password             string `json:"password"              validate:"required,min=8,max=128,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	FirstName            string `json:"first_name"            validate:"nullable,max=150"`
	LastName             string `json:"last_name"             validate:"nullable,max=150"`
	UserType             string `json:"user_type"             validate:"required,in=user|seller"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what register and login return.
type Session struct {
	User     *models.User `json:"user"`
	UserType string       `json:"user_type"`
	Tokens   auth.Pair    `json:"tokens"`
}

// UserType maps an account role back to the registration user type.
func UserType(role string) string {
	if role == rbac.Seller {
		return UserTypeSeller
	}
	return UserTypeStudent
}

func roleFor(userType string) string {
	if userType == UserTypeSeller {
		return rbac.Seller
	}
	return rbac.Student
}

type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates the account, plus a seller profile for sellers, and
// signs the caller in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      roleFor(in.UserType),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewUserRepository(tx)
		taken, err := users.UsernameTaken(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}
		if u.IsSeller() {
			return repositories.NewProfileRepository(tx).CreateSeller(ctx, &models.SellerProfile{
				UserID:  u.ID,
				PhoneNo: models.DefaultSellerPhone,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("account registered", "user_id", u.ID, "role", u.Role)
	return s.session(u)
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := repositories.NewUserRepository(s.db).FindByUsername(ctx, in.Username)
	if orm.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *AccountService) session(u *models.User) (*Session, error) {
	pair, err := auth.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &Session{User: u, UserType: UserType(u.Role), Tokens: pair}, nil
}

// Logout revokes the refresh token. Access tokens expire on their own.
func (s *AccountService) Logout(ctx context.Context, refresh string) error {
	if err := auth.Revoke(ctx, refresh); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AccountService) Refresh(ctx context.Context, refresh string) (string, error) {
	access, err := auth.RefreshAccess(ctx, refresh)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return access, nil
}

// Me is the account together with its student or seller profile, which is
// nil until one exists.
type Me struct {
	User     *models.User `json:"user"`
	UserType string       `json:"user_type"`
	Profile  interface{}  `json:"profile"`
}

func (s *AccountService) Me(ctx context.Context, userID uint) (*Me, error) {
	u, err := repositories.NewUserRepository(s.db).FindByID(ctx, userID)
	if err != nil {
		return nil, missing(err, "account")
	}
	me := &Me{User: u, UserType: UserType(u.Role)}

	profiles := repositories.NewProfileRepository(s.db)
	if u.IsSeller() {
		sp, err := profiles.SellerForUser(ctx, userID)
		if err != nil && !orm.IsNotFound(err) {
			return nil, err
		}
		if sp != nil {
			me.Profile = sp
		}
		return me, nil
	}
	p, err := profiles.ForUser(ctx, userID)
	if err != nil && !orm.IsNotFound(err) {
		return nil, err
	}
	if p != nil {
		me.Profile = p
	}
	return me, nil
}

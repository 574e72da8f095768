package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/services/studentid"
	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/orm"
)

// The in= lists mirror models.Hostels and models.Branches.
type ProfileInput struct {
	Name   string `json:"name"        validate:"required,max=15"`
	Hostel string `json:"hostel"      validate:"nullable,in=SR|GANDHI|KRISHNA|RAM|BUDH|SHANKAR|VYAS|RANAPRATAP|VK|ASHOK|MEERA|BHAGIRATH"`
	RoomNo *int   `json:"room_no"     validate:"nullable,min=1,max=9999"`
	Branch string `json:"user_branch" validate:"nullable,in=A7|AA|A8|A3|A4|AB|A2|A1|B5|B1|B2|A5|B4|B3"`
}

// ProfileUpdate changes only the fields that are present.
type ProfileUpdate struct {
	Name   *string `json:"name"        validate:"nullable,max=15"`
	Hostel *string `json:"hostel"      validate:"nullable,in=SR|GANDHI|KRISHNA|RAM|BUDH|SHANKAR|VYAS|RANAPRATAP|VK|ASHOK|MEERA|BHAGIRATH"`
	RoomNo *int    `json:"room_no"     validate:"nullable,min=1,max=9999"`
	Branch *string `json:"user_branch" validate:"nullable,in=A7|AA|A8|A3|A4|AB|A2|A1|B5|B1|B2|A5|B4|B3"`
}

type SellerProfileUpdate struct {
	PhoneNo string `json:"seller_phone_no" validate:"required,digits=10"`
}

type ProfileService struct {
	db      *gorm.DB
	deriver studentid.Deriver
}

// NewProfileService uses d to derive student ids; nil means the campus
// slicing rule.
func NewProfileService(db *gorm.DB, d studentid.Deriver) *ProfileService {
	if d == nil {
		d = studentid.SliceDeriver{}
	}
	return &ProfileService{db: db, deriver: d}
}

// Create makes the caller's student profile. The external id is derived
// from the account email once, here; an address the rule cannot handle
// leaves it empty.
func (s *ProfileService) Create(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	p := &models.Profile{
		UserID: userID,
		Name:   in.Name,
		Hostel: models.DefaultHostel,
		RoomNo: models.DefaultRoomNo,
		Branch: models.DefaultBranch,
	}
	if in.Hostel != "" {
		p.Hostel = in.Hostel
	}
	if in.RoomNo != nil {
		p.RoomNo = *in.RoomNo
	}
	if in.Branch != "" {
		p.Branch = in.Branch
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profiles := repositories.NewProfileRepository(tx)
		exists, err := profiles.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if exists {
			return ErrProfileExists
		}

		u, err := repositories.NewUserRepository(tx).FindByID(ctx, userID)
		if err != nil {
			return missing(err, "account")
		}
		id, err := s.deriver.Derive(u.Email, p.Branch)
		switch {
		case errors.Is(err, studentid.ErrUnderivable):
			logger.WithCtx(ctx).Warn("profile: student id not derivable", "user_id", userID)
		case err != nil:
			return err
		default:
			p.ExternalID = id
		}

		if err := profiles.Create(ctx, p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrProfileExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, userID uint) (*models.Profile, error) {
	p, err := repositories.NewProfileRepository(s.db).ForUser(ctx, userID)
	if orm.IsNotFound(err) {
		return nil, ErrNoProfile
	}
	return p, err
}

// Update edits the profile. The external id is never re-derived, even when
// the branch changes.
func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileUpdate) (*models.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Hostel != nil {
		p.Hostel = *in.Hostel
	}
	if in.RoomNo != nil {
		p.RoomNo = *in.RoomNo
	}
	if in.Branch != nil {
		p.Branch = *in.Branch
	}
	if err := repositories.NewProfileRepository(s.db).Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Seller(ctx context.Context, userID uint) (*models.SellerProfile, error) {
	sp, err := repositories.NewProfileRepository(s.db).SellerForUser(ctx, userID)
	if err != nil {
		return nil, missing(err, "seller profile")
	}
	return sp, nil
}

func (s *ProfileService) UpdateSeller(ctx context.Context, userID uint, in SellerProfileUpdate) (*models.SellerProfile, error) {
	sp, err := s.Seller(ctx, userID)
	if err != nil {
		return nil, err
	}
	sp.PhoneNo = in.PhoneNo
	if err := repositories.NewProfileRepository(s.db).SaveSeller(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

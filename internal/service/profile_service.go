package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"commissionhub/internal/domain"
	"commissionhub/internal/models"
	"commissionhub/internal/repository"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileInput carries optional profile edits; nil fields are left unchanged.
type ProfileInput struct {
	Name           *string   `json:"name"`
	Bio            *string   `json:"bio"`
	Qualifications *string   `json:"qualifications"`
	Skills         *[]string `json:"skills"`
	Experience     *string   `json:"experience"`
	Education      *string   `json:"education"`
	Phone          *string   `json:"phone"`
	Address        *string   `json:"address"`
}

func (in ProfileInput) fields() (map[string]interface{}, error) {
	f := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			f[col] = strings.TrimSpace(*v)
		}
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Validation("Name cannot be empty")
	}
	set("name", in.Name)
	set("bio", in.Bio)
	set("qualifications", in.Qualifications)
	set("experience", in.Experience)
	set("education", in.Education)
	set("phone", in.Phone)
	set("address", in.Address)
	if in.Skills != nil {
		skills := lo.Uniq(lo.Compact(lo.Map(*in.Skills, func(s string, _ int) string { return strings.TrimSpace(s) })))
		b, err := json.Marshal(skills)
		if err != nil {
			return nil, err
		}
		f["skills"] = datatypes.JSON(b)
	}
	return f, nil
}

type ProfileService struct {
	users *repository.UserRepository
}

func NewProfileService(users *repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) Get(ctx context.Context, actor domain.Actor) (*models.User, error) {
	u, err := s.users.GetByID(ctx, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("User not found")
	}
	return u, err
}

// Update edits profile fields. Email, role and password are not editable here.
func (s *ProfileService) Update(ctx context.Context, actor domain.Actor, in ProfileInput) (*models.User, error) {
	fields, err := in.fields()
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, actor.ID, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor)
}

func (s *ProfileService) SetAvatar(ctx context.Context, actor domain.Actor, url string) (*models.User, error) {
	if _, err := s.Get(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, actor.ID, map[string]interface{}{"avatar_url": url}); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor)
}

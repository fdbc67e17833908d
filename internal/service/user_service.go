package service

import (
	"errors"

	"github.com/google/uuid"

	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
)

var ErrEmailExists = errors.New("email already registered")

type CreateUserInput struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	FullName    string   `json:"full_name" validate:"required"`
	PhoneNumber string   `json:"phone_number"`
	RoleID      *uint    `json:"role_id"`
	Privileges  []string `json:"privileges"`
}

type UpdateUserInput struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	RoleID      *uint   `json:"role_id"`
	IsActive    *bool   `json:"is_active"`
}

type UserService interface {
	CreateUser(input CreateUserInput) (*model.UserResponse, error)
	GetUser(id uuid.UUID) (*model.UserResponse, error)
	ListUsers() ([]model.UserResponse, error)
	UpdateUser(id uuid.UUID, input UpdateUserInput) (*model.UserResponse, error)
	DeleteUser(id uuid.UUID) error
	UpdateUserPrivileges(id uuid.UUID, codes []string) (*model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	privRepo repository.PrivilegeRepository
}

func NewUserService(userRepo repository.UserRepository, privRepo repository.PrivilegeRepository) UserService {
	return &userService{userRepo: userRepo, privRepo: privRepo}
}

func (s *userService) CreateUser(input CreateUserInput) (*model.UserResponse, error) {
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Email:       input.Email,
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		RoleID:      input.RoleID,
		IsActive:    true,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if len(input.Privileges) > 0 {
		privileges, err := s.privRepo.FindByCodes(input.Privileges)
		if err != nil {
			return nil, err
		}
		user.Privileges = privileges
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	created, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return nil, err
	}
	resp := created.ToResponse()
	return &resp, nil
}

func (s *userService) GetUser(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) UpdateUser(id uuid.UUID, input UpdateUserInput) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*input.Email); err == nil {
			return nil, ErrEmailExists
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.RoleID != nil {
		user.RoleID = input.RoleID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(id)
}

func (s *userService) UpdateUserPrivileges(id uuid.UUID, codes []string) (*model.UserResponse, error) {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return nil, ErrUserNotFound
	}

	privileges, err := s.privRepo.FindByCodes(codes)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdatePrivileges(id, privileges); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

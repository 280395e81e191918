package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"
	"Foodgram-Backend/internal/utils/mailing"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, claims *jwt.UserClaims) error
		GetUser(ctx context.Context, id uint, viewerID uint) (domain.User, error)
		GetUsers(ctx context.Context, p domain.PaginationRequest, viewerID uint) (domain.PaginatedResponse[domain.User], error)
		UpdateUser(ctx context.Context, userID uint, req domain.UpdateUserRequest) (domain.User, error)
		SetAvatar(ctx context.Context, userID uint, req domain.SetAvatarRequest) (domain.SetAvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID uint) error
		ChangePassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error
		DeleteUser(ctx context.Context, userID uint) error
	}

	MailSender func(toEmail string, subject string, body string) error

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
		sendMail       MailSender
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3) UserService {
	return NewUserServiceWithMailer(userRepository, jwtService, s3, mailing.SendMail)
}

func NewUserServiceWithMailer(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3, sendMail MailSender) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
		sendMail:       sendMail,
	}
}

// ToUserResponse maps a user row to its public representation.
func ToUserResponse(u *entities.User, isSubscribed bool) domain.User {
	if u == nil {
		return domain.User{}
	}
	return domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.Avatar,
	}
}

func (s *userService) checkUnique(ctx context.Context, email, username string, excludeID uint) error {
	verr := domain.NewValidationError()
	if email != "" {
		taken, err := s.userRepository.IsEmailTaken(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("email", domain.ErrEmailAlreadyUsed.Error())
		}
	}
	if username != "" {
		taken, err := s.userRepository.IsUsernameTaken(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("username", domain.ErrUsernameAlreadyUsed.Error())
		}
	}
	return verr.OrNil()
}

// uniqueViolationError turns a unique index hit that slipped past
// checkUnique (a concurrent registration) into the same field error.
func uniqueViolationError(err error) error {
	verr := domain.NewValidationError()
	switch utils.UniqueViolationColumn(err, "email", "username") {
	case "username":
		verr.Add("username", domain.ErrUsernameAlreadyUsed.Error())
	default:
		verr.Add("email", domain.ErrEmailAlreadyUsed.Error())
	}
	return verr
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.checkUnique(ctx, req.Email, req.Username, 0); err != nil {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if utils.IsUniqueViolation(err) {
			return domain.RegisterResponse{}, uniqueViolationError(err)
		}
		return domain.RegisterResponse{}, err
	}

	s.sendWelcomeMail(user)

	return domain.RegisterResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) sendWelcomeMail(user *entities.User) {
	if s.sendMail == nil {
		return
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>your Foodgram account <b>%s</b> is ready. Share your first recipe at <a href=\"%s\">%s</a>.</p>",
		user.FirstName, user.Username, utils.GetConfig("APP_URL"), utils.GetConfig("APP_URL"),
	)
	err := s.sendMail(user.Email, "Welcome to Foodgram", body)
	if err != nil && !errors.Is(err, mailing.ErrMailNotConfigured) {
		logging.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to send welcome email")
	}
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Logout(ctx context.Context, claims *jwt.UserClaims) error {
	return s.jwtService.RevokeToken(ctx, claims)
}

func (s *userService) getUser(ctx context.Context, id uint) (*entities.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint, viewerID uint) (domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	subscribed, err := s.userRepository.GetSubscribedAuthorIDs(ctx, viewerID, []uint{user.ID})
	if err != nil {
		return domain.User{}, err
	}
	return ToUserResponse(user, subscribed[user.ID]), nil
}

func (s *userService) GetUsers(ctx context.Context, p domain.PaginationRequest, viewerID uint) (domain.PaginatedResponse[domain.User], error) {
	p = p.Normalize()
	users, count, err := s.userRepository.GetUsers(ctx, p)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.userRepository.GetSubscribedAuthorIDs(ctx, viewerID, ids)
	if err != nil {
		return domain.PaginatedResponse[domain.User]{}, err
	}

	res := make([]domain.User, 0, len(users))
	for _, u := range users {
		res = append(res, ToUserResponse(u, subscribed[u.ID]))
	}
	return domain.NewPaginatedResponse(res, count, p), nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uint, req domain.UpdateUserRequest) (domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	email := strings.TrimSpace(req.Email)
	if strings.EqualFold(email, user.Email) {
		email = ""
	}
	username := req.Username
	if username == user.Username {
		username = ""
	}
	if err := s.checkUnique(ctx, email, username, user.ID); err != nil {
		return domain.User{}, err
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		if utils.IsUniqueViolation(err) {
			return domain.User{}, uniqueViolationError(err)
		}
		return domain.User{}, err
	}
	return ToUserResponse(user, false), nil
}

func (s *userService) SetAvatar(ctx context.Context, userID uint, req domain.SetAvatarRequest) (domain.SetAvatarResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.SetAvatarResponse{}, err
	}

	objectKey, err := s.s3.UploadBase64(ctx, fmt.Sprintf("avatar-%d", user.ID), req.Avatar, "avatars", storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidDataURI) || errors.Is(err, storage.ErrContentTypeDenied) {
			verr := domain.NewValidationError()
			verr.Add("avatar", err.Error())
			return domain.SetAvatarResponse{}, verr
		}
		return domain.SetAvatarResponse{}, err
	}

	previous := user.Avatar
	user.Avatar = s.s3.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.SetAvatarResponse{}, err
	}

	s.removeObject(ctx, previous)
	return domain.SetAvatarResponse{Avatar: user.Avatar}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}

	previous := user.Avatar
	user.Avatar = ""
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return err
	}
	s.removeObject(ctx, previous)
	return nil
}

// removeObject deletes a stored image. Failures only leave an orphan object
// behind, so they are logged and swallowed.
func (s *userService) removeObject(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := s.s3.ObjectKeyFromURL(url)
	if !ok {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		logging.Warn().Err(err).Str("object_key", key).Msg("failed to delete stored image")
	}
}

func (s *userService) ChangePassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		verr := domain.NewValidationError()
		verr.Add("current_password", domain.ErrWrongPassword.Error())
		return verr
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepository.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	s.removeObject(ctx, user.Avatar)
	return nil
}

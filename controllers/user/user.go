package userController

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tourdesk/logging"
	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/repository"
	"tourdesk/utils"
	"tourdesk/validators"
	userValidator "tourdesk/validators/user"
)

type Controller struct {
	users    repository.UserRepository
	hashCost int
}

func New(users repository.UserRepository, hashCost int) *Controller {
	return &Controller{users: users, hashCost: hashCost}
}

func (ctl *Controller) List(c *fiber.Ctx) error {
	users, err := ctl.users.List(c.UserContext())
	if err != nil {
		logging.Error().Err(err).Msg("failed to list admin users")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", users)
}

func (ctl *Controller) Create(c *fiber.Ctx) error {
	input := c.Locals(userValidator.LocalCreate).(*userValidator.CreateUserInput)

	hash, err := utils.HashPassword(input.Password, ctl.hashCost)
	if err != nil {
		logging.Error().Err(err).Msg("failed to hash password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user := &models.AdminUser{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         models.Role(input.Role),
	}
	if err := ctl.users.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		logging.Error().Err(err).Msg("failed to create admin user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	logging.Info().Uint("userId", user.ID).Str("role", string(user.Role)).Msg("admin user created")
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", user)
}

// Update applies only the fields present in the request. A super_admin cannot
// change their own role, so the last one can never lock everybody out.
func (ctl *Controller) Update(c *fiber.Ctx) error {
	input := c.Locals(userValidator.LocalUpdate).(*userValidator.UpdateUserInput)
	session, _ := middleware.CurrentSession(c)

	user, err := ctl.users.FindByID(c.UserContext(), input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		logging.Error().Err(err).Uint("userId", input.ID).Msg("failed to load admin user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	if input.Role != nil && *input.Role != user.Role && session.UserID == user.ID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot change your own role!", nil)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Password != nil {
		hash, err := utils.HashPassword(*input.Password, ctl.hashCost)
		if err != nil {
			logging.Error().Err(err).Msg("failed to hash password")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		user.PasswordHash = hash
	}

	if err := ctl.users.Update(c.UserContext(), user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		case errors.Is(err, repository.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		logging.Error().Err(err).Uint("userId", user.ID).Msg("failed to update admin user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
}

func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id := c.Locals(validators.LocalID).(uint)
	session, _ := middleware.CurrentSession(c)

	if session.UserID == id {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	if err := ctl.users.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		logging.Error().Err(err).Uint("userId", id).Msg("failed to delete admin user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	logging.Info().Uint("userId", id).Uint("by", session.UserID).Msg("admin user deleted")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", fiber.Map{"id": id})
}

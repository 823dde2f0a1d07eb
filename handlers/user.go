package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Akhalfstar/Realeaste-bakend/models"
	"github.com/Akhalfstar/Realeaste-bakend/utils"
)

type UserController struct {
	collection *mongo.Collection
	tokens     *utils.TokenManager
}

func NewUserController(collection *mongo.Collection, tokens *utils.TokenManager) *UserController {
	return &UserController{collection: collection, tokens: tokens}
}

func (uc *UserController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Email, password and name are required")
	}

	ctx := c.Request().Context()

	var existingUser models.User
	err := uc.collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existingUser)
	if err == nil {
		return utils.Error(c, http.StatusConflict, "User with this email already exists")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to hash password")
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Email:     req.Email,
		Password:  hashedPassword,
		Name:      req.Name,
		Phone:     req.Phone,
		Role:      models.RoleUser,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := uc.collection.InsertOne(ctx, user); err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to create user")
	}

	token, err := uc.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to generate token")
	}

	user.Password = ""

	return utils.Success(c, http.StatusCreated, models.LoginResponse{
		Token: token,
		User:  user,
	})
}

func (uc *UserController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	var user models.User
	if err := uc.collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		return utils.Error(c, http.StatusUnauthorized, "Invalid email or password")
	}

	if !user.IsActive {
		return utils.Error(c, http.StatusUnauthorized, "Account is deactivated")
	}

	if err := utils.CheckPassword(user.Password, req.Password); err != nil {
		return utils.Error(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := uc.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to generate token")
	}

	user.Password = ""

	return utils.Success(c, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user,
	})
}

func (uc *UserController) GetProfile(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var user models.User
	err := uc.collection.FindOne(c.Request().Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return utils.Error(c, http.StatusNotFound, "User not found")
	}

	user.Password = ""

	return utils.Success(c, http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid request body")
	}

	updateDoc := bson.M{
		"updated_at": time.Now(),
	}
	if req.Name != "" {
		updateDoc["name"] = req.Name
	}
	if req.Phone != "" {
		updateDoc["phone"] = req.Phone
	}

	ctx := c.Request().Context()
	_, err := uc.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": updateDoc})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to update user")
	}

	var user models.User
	if err := uc.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch updated user")
	}

	user.Password = ""

	return utils.Success(c, http.StatusOK, user)
}

func (uc *UserController) DeleteAccount(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	if _, err := uc.collection.DeleteOne(c.Request().Context(), bson.M{"_id": userID}); err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to delete user")
	}

	return utils.SuccessMessage(c, http.StatusOK, "Account deleted successfully", nil)
}

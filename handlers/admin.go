package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Akhalfstar/Realeaste-bakend/models"
	"github.com/Akhalfstar/Realeaste-bakend/query"
	"github.com/Akhalfstar/Realeaste-bakend/utils"
)

// Admin listings page at a fixed size.
const adminUsersPageSize = 100

type AdminController struct {
	users *mongo.Collection
}

func NewAdminController(users *mongo.Collection) *AdminController {
	return &AdminController{users: users}
}

func requireAdmin(c echo.Context) error {
	if c.Get("user_role").(string) != models.RoleAdmin {
		return utils.Error(c, http.StatusForbidden, "Access denied")
	}
	return nil
}

// GetAllUsers pages through every account, newest first, passwords
// stripped.
func (ac *AdminController) GetAllUsers(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}
	skip := (page - 1) * adminUsersPageSize

	ctx := c.Request().Context()
	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(adminUsersPageSize)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := ac.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch users")
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		user.Password = ""
		users = append(users, user)
	}

	total, err := ac.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to count users")
	}

	return utils.Paginated(c, http.StatusOK, users, utils.Pagination{
		Total: total,
		Page:  page,
		Pages: query.TotalPages(total, adminUsersPageSize),
	})
}

// ToggleUserRole flips an account between user and agent.
func (ac *AdminController) ToggleUserRole(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, "User ID is required")
	}

	ctx := c.Request().Context()

	var user models.User
	if err := ac.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.Error(c, http.StatusNotFound, "User not found")
		}
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch user")
	}

	newRole := models.RoleAgent
	if user.Role == models.RoleAgent {
		newRole = models.RoleUser
	}

	_, err = ac.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"role":       newRole,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to update user role")
	}

	user.Role = newRole
	user.Password = ""

	return utils.SuccessMessage(c, http.StatusOK, "User role updated successfully", user)
}

// GetUserStats backs the admin dashboard: account counts and the latest
// registrations.
func (ac *AdminController) GetUserStats(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}

	ctx := c.Request().Context()

	totalUsers, err := ac.users.CountDocuments(ctx, bson.M{"role": models.RoleUser})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to count users")
	}
	totalAgents, err := ac.users.CountDocuments(ctx, bson.M{"role": models.RoleAgent})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to count agents")
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	newUsersToday, err := ac.users.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": midnight}})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to count new users")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(5)
	cursor, err := ac.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch recent activity")
	}
	defer cursor.Close(ctx)

	type activity struct {
		Message string `json:"message"`
		TimeAgo string `json:"timeAgo"`
	}
	recentActivity := []activity{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		recentActivity = append(recentActivity, activity{
			Message: fmt.Sprintf("%s registered as %s", user.Name, user.Role),
			TimeAgo: timeSince(user.CreatedAt),
		})
	}

	return utils.Success(c, http.StatusOK, map[string]interface{}{
		"totalUsers":     totalUsers,
		"totalAgents":    totalAgents,
		"newUsersToday":  newUsersToday,
		"recentActivity": recentActivity,
	})
}

func timeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%d seconds ago", int(d.Seconds()))
	}
}

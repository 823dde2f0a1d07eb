package handlers

import (
	"net/http"
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

type LikeController struct {
	collection *mongo.Collection
}

func NewLikeController(collection *mongo.Collection) *LikeController {
	return &LikeController{collection: collection}
}

type likeRequest struct {
	PropertyID string `json:"_id"`
}

// ToggleLike likes the property if the user has not liked it yet,
// otherwise removes the like.
func (lc *LikeController) ToggleLike(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, "Property Id not found")
	}

	ctx := c.Request().Context()
	filter := bson.M{"user": userID, "property": propertyID}

	var existing models.Like
	err = lc.collection.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		if _, err := lc.collection.DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
			return utils.Error(c, http.StatusInternalServerError, "Could not update like status")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Property Unliked",
			"liked":   false,
		})
	}
	if err != mongo.ErrNoDocuments {
		return utils.Error(c, http.StatusInternalServerError, "Could not update like status")
	}

	like := models.Like{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Property:  propertyID,
		CreatedAt: time.Now(),
	}
	if _, err := lc.collection.InsertOne(ctx, like); err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Could not update like status")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Liked Property",
		"data":    like,
		"liked":   true,
	})
}

// LikeStatus reports whether the user has liked the given property.
func (lc *LikeController) LikeStatus(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)

	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid request body")
	}
	propertyID, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, "Property Id not found")
	}

	ctx := c.Request().Context()
	count, err := lc.collection.CountDocuments(ctx, bson.M{"user": userID, "property": propertyID})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Could not get like status")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"liked":   count > 0,
	})
}

// UserLikes lists the user's likes, newest first, paginated.
func (lc *LikeController) UserLikes(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	ctx := c.Request().Context()
	params := c.QueryParams()

	page := query.ParsePage(params)
	opts := options.Find().
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit)).
		SetSort(query.ParseSort(params.Get("sort")))

	filter := bson.M{"user": userID}
	cursor, err := lc.collection.Find(ctx, filter, opts)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Could not get user likes")
	}
	defer cursor.Close(ctx)

	likes := []models.Like{}
	for cursor.Next(ctx) {
		var like models.Like
		if err := cursor.Decode(&like); err != nil {
			continue
		}
		likes = append(likes, like)
	}

	total, err := lc.collection.CountDocuments(ctx, filter)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Could not count user likes")
	}

	return utils.Paginated(c, http.StatusOK, likes, utils.Pagination{
		Total: total,
		Page:  page.Page,
		Pages: query.TotalPages(total, page.Limit),
	})
}

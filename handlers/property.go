package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Akhalfstar/Realeaste-bakend/models"
	"github.com/Akhalfstar/Realeaste-bakend/query"
	"github.com/Akhalfstar/Realeaste-bakend/storage"
	"github.com/Akhalfstar/Realeaste-bakend/utils"
)

const (
	searchCacheTTL = time.Minute
	statsCacheTTL  = 5 * time.Minute
)

type PropertyController struct {
	collection *mongo.Collection
	images     *storage.Coordinator
	cache      *utils.Cache
	log        zerolog.Logger
}

func NewPropertyController(collection *mongo.Collection, images *storage.Coordinator, cache *utils.Cache, log zerolog.Logger) *PropertyController {
	return &PropertyController{
		collection: collection,
		images:     images,
		cache:      cache,
		log:        log,
	}
}

// CreateProperty handles the multipart create request: a propertyData
// JSON field plus one or more images files. Images are uploaded to
// external storage before the record is written, so a failed batch never
// leaves a property without images.
func (pc *PropertyController) CreateProperty(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	userRole := c.Get("user_role").(string)
	if !canCreateListing(userRole) {
		return utils.Error(c, http.StatusForbidden, "Only agents can create listings")
	}

	raw := c.FormValue("propertyData")
	if raw == "" {
		return utils.Error(c, http.StatusBadRequest, "propertyData field is required")
	}
	var input models.CreatePropertyInput
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid propertyData JSON")
	}
	if err := utils.ValidateStruct(&input); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Title, price, and property type are required")
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		return utils.Error(c, http.StatusBadRequest, "At least one property image is required")
	}

	paths, err := stageFiles(form.File["images"])
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to read uploaded images")
	}
	refs, err := pc.images.UploadAll(c.Request().Context(), paths)
	if err != nil {
		pc.log.Error().Err(err).Msg("image batch upload failed")
		return utils.Error(c, http.StatusInternalServerError, "Failed to upload images")
	}

	status := input.Status
	if status == "" {
		status = models.StatusAvailable
	}

	property := models.Property{
		ID:           primitive.NewObjectID(),
		Title:        input.Title,
		Description:  input.Description,
		Address:      input.Address,
		Price:        *input.Price,
		PropertyType: input.PropertyType,
		Status:       status,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		Area:         input.Area,
		Images:       refs,
		Features:     input.Features,
		Amenities:    input.Amenities,
		Agent:        userID,
		CreatedAt:    time.Now(),
	}
	if input.Latitude != nil && input.Longitude != nil {
		property.Location = models.NewGeoPoint(*input.Longitude, *input.Latitude)
	}

	if _, err := pc.collection.InsertOne(c.Request().Context(), property); err != nil {
		// The uploads landed but the record did not; take them back out.
		pc.images.DeleteAll(context.Background(), refs)
		return utils.Error(c, http.StatusInternalServerError, "Failed to create property")
	}

	return utils.SuccessMessage(c, http.StatusCreated, "Property created successfully", property)
}

// SearchProperties is the filtered, paginated listing endpoint. Results
// are cached briefly in Redis keyed by the query string.
func (pc *PropertyController) SearchProperties(c echo.Context) error {
	ctx := c.Request().Context()
	params := c.QueryParams()

	cacheKey := utils.QueryCacheKey("property:search", params)
	var cached utils.Response
	if found, _ := pc.cache.Get(ctx, cacheKey, &cached); found {
		return c.JSON(http.StatusOK, cached)
	}

	q, err := query.Assemble(params)
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, err.Error())
	}

	cursor, err := pc.collection.Find(ctx, q.Filter, q.Opts)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch properties")
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	for cursor.Next(ctx) {
		var property models.Property
		if err := cursor.Decode(&property); err != nil {
			continue
		}
		properties = append(properties, property)
	}

	total, err := pc.collection.CountDocuments(ctx, q.CountFilter)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to count properties")
	}

	resp := utils.Response{
		Success: true,
		Data:    properties,
		Pagination: &utils.Pagination{
			Total: total,
			Page:  q.Page.Page,
			Pages: query.TotalPages(total, q.Page.Limit),
		},
	}
	if err := pc.cache.Set(ctx, cacheKey, resp, searchCacheTTL); err != nil {
		pc.log.Debug().Err(err).Msg("search cache write failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// GetProperty returns a single property by its _id query parameter.
func (pc *PropertyController) GetProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.QueryParam("_id"))
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid property ID")
	}

	var property models.Property
	err = pc.collection.FindOne(c.Request().Context(), bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.Error(c, http.StatusNotFound, "Property not found")
		}
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch property")
	}
	return utils.Success(c, http.StatusOK, property)
}

// UpdateProperty applies an allow-listed merge-patch plus optional new
// images. New images are appended after the existing ones; this path
// never removes an image.
func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid property ID")
	}

	var property models.Property
	err = pc.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.Error(c, http.StatusNotFound, "Property not found")
		}
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch property")
	}

	if !canMutateProperty(&property, userID) {
		return utils.Error(c, http.StatusForbidden, "Unauthorized to update this property")
	}

	var input models.UpdatePropertyInput
	if raw := c.FormValue("propertyData"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return utils.Error(c, http.StatusBadRequest, "Invalid propertyData JSON")
		}
	} else if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := c.Bind(&input); err != nil {
			return utils.Error(c, http.StatusBadRequest, "Invalid request body")
		}
	}
	if err := utils.ValidateStruct(&input); err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid field value in update")
	}

	set := buildUpdateDoc(input)
	if input.Coordinates != "" {
		point, err := parseCoordinateString(input.Coordinates)
		if err != nil {
			return utils.Error(c, http.StatusBadRequest, err.Error())
		}
		set["location"] = point
	}

	var newRefs []models.ImageRef
	if form, err := c.MultipartForm(); err == nil && len(form.File["images"]) > 0 {
		paths, err := stageFiles(form.File["images"])
		if err != nil {
			return utils.Error(c, http.StatusInternalServerError, "Failed to read uploaded images")
		}
		newRefs, err = pc.images.UploadAll(ctx, paths)
		if err != nil {
			pc.log.Error().Err(err).Msg("image batch upload failed")
			return utils.Error(c, http.StatusInternalServerError, "Failed to upload images")
		}
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(newRefs) > 0 {
		update["$push"] = bson.M{"images": bson.M{"$each": newRefs}}
	}
	if len(update) == 0 {
		return utils.SuccessMessage(c, http.StatusOK, "Property updated successfully", property)
	}

	var updated models.Property
	err = pc.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		pc.images.DeleteAll(context.Background(), newRefs)
		return utils.Error(c, http.StatusInternalServerError, "Failed to update property")
	}

	return utils.SuccessMessage(c, http.StatusOK, "Property updated successfully", updated)
}

// DeleteProperty releases the property's external images and removes the
// record. Image deletion is best-effort: a failed storage call is logged
// and never blocks removal of the record.
func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, "Invalid property ID")
	}

	var property models.Property
	err = pc.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.Error(c, http.StatusNotFound, "Property not found")
		}
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch property")
	}

	if !canMutateProperty(&property, userID) {
		return utils.Error(c, http.StatusForbidden, "Unauthorized to delete this property")
	}

	pc.images.DeleteAll(ctx, property.Images)

	if _, err := pc.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to delete property")
	}

	return utils.SuccessMessage(c, http.StatusOK, "Property deleted successfully", nil)
}

// NearbyProperties is the map-centric lookup: geo predicate only, results
// nearest first.
func (pc *PropertyController) NearbyProperties(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if latErr != nil || lngErr != nil {
		return utils.Error(c, http.StatusBadRequest, "latitude and longitude are required")
	}

	distance := float64(0)
	if raw := c.QueryParam("distance"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.Error(c, http.StatusBadRequest, "distance must be numeric")
		}
		distance = d
	}

	geo, err := query.NewGeoFilter(lat, lng, distance)
	if err != nil {
		return utils.Error(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	cursor, err := pc.collection.Find(ctx, bson.M{"location": geo.Near()})
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch nearby properties")
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	for cursor.Next(ctx) {
		var property models.Property
		if err := cursor.Decode(&property); err != nil {
			continue
		}
		properties = append(properties, property)
	}

	return utils.Success(c, http.StatusOK, properties)
}

// PropertyStats groups all properties by type and reports count and
// price spread per group.
func (pc *PropertyController) PropertyStats(c echo.Context) error {
	ctx := c.Request().Context()

	cacheKey := "property:stats"
	var cached utils.Response
	if found, _ := pc.cache.Get(ctx, cacheKey, &cached); found {
		return c.JSON(http.StatusOK, cached)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$propertyType"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "minPrice", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "maxPrice", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := pc.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to aggregate property stats")
	}
	defer cursor.Close(ctx)

	stats := []models.TypeStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to decode property stats")
	}

	resp := utils.Response{Success: true, Data: stats}
	if err := pc.cache.Set(ctx, cacheKey, resp, statsCacheTTL); err != nil {
		pc.log.Debug().Err(err).Msg("stats cache write failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// MyProperties lists the authenticated agent's own listings, paginated.
func (pc *PropertyController) MyProperties(c echo.Context) error {
	userID := c.Get("user_id").(primitive.ObjectID)
	ctx := c.Request().Context()
	params := c.QueryParams()

	page := query.ParsePage(params)
	opts := options.Find().
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit)).
		SetSort(query.ParseSort(params.Get("sort")))

	filter := bson.M{"agent": userID}
	cursor, err := pc.collection.Find(ctx, filter, opts)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to fetch properties")
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	for cursor.Next(ctx) {
		var property models.Property
		if err := cursor.Decode(&property); err != nil {
			continue
		}
		properties = append(properties, property)
	}

	total, err := pc.collection.CountDocuments(ctx, filter)
	if err != nil {
		return utils.Error(c, http.StatusInternalServerError, "Failed to count properties")
	}

	return utils.Paginated(c, http.StatusOK, properties, utils.Pagination{
		Total: total,
		Page:  page.Page,
		Pages: query.TotalPages(total, page.Limit),
	})
}

// buildUpdateDoc maps the allow-listed update fields into a $set
// document. Only fields present in the request make it in.
func buildUpdateDoc(input models.UpdatePropertyInput) bson.M {
	set := bson.M{}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Address != nil {
		set["address"] = *input.Address
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.PropertyType != nil {
		set["propertyType"] = *input.PropertyType
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}
	if input.Bedrooms != nil {
		set["bedrooms"] = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		set["bathrooms"] = *input.Bathrooms
	}
	if input.Area != nil {
		set["area"] = *input.Area
	}
	if input.Features != nil {
		set["features"] = input.Features
	}
	if input.Amenities != nil {
		set["amenities"] = input.Amenities
	}
	return set
}

// parseCoordinateString parses the update body's "lng,lat" coordinate
// string into a GeoJSON point.
func parseCoordinateString(raw string) (*models.GeoPoint, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("coordinates want lng,lat, got %q", raw)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("longitude %q is not numeric", parts[0])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("latitude %q is not numeric", parts[1])
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return nil, fmt.Errorf("coordinates must be finite")
	}
	return models.NewGeoPoint(lng, lat), nil
}

// stageFiles copies multipart uploads to temp files for the image store.
// The coordinator removes each temp file after its upload attempt; on a
// staging error the files staged so far are cleaned up here.
func stageFiles(files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	cleanup := func() {
		for _, p := range paths {
			os.Remove(p)
		}
	}

	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, err
		}

		dst, err := os.CreateTemp("", "property-image-*"+filepath.Ext(fh.Filename))
		if err != nil {
			src.Close()
			cleanup()
			return nil, err
		}

		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			os.Remove(dst.Name())
			cleanup()
			return nil, err
		}
		paths = append(paths, dst.Name())
	}

	return paths, nil
}

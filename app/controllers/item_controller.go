package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/resources"
	"github.com/shashiranjanraj/canteen/app/services"
	"github.com/shashiranjanraj/canteen/pkg/bind"
	"github.com/shashiranjanraj/canteen/pkg/ctx"
	"github.com/shashiranjanraj/canteen/pkg/resource"
	"github.com/shashiranjanraj/canteen/pkg/validate"
)

const imageField = "image"

type ItemController struct {
	catalog *services.CatalogService
}

func NewItemController(catalog *services.CatalogService) *ItemController {
	return &ItemController{catalog: catalog}
}

// Index: GET /api/items?restaurant=&available=
func (h *ItemController) Index(c *ctx.Context) {
	f := repositories.ItemFilter{Available: c.QueryBool("available")}
	if raw := c.Query("restaurant"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.ValidationError(map[string]string{"restaurant": "must be a restaurant id"})
			return
		}
		venueID := uint(n)
		f.VenueID = &venueID
	}
	items, err := h.catalog.ListItems(c.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Many(resources.Item, items))
}

func (h *ItemController) Show(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	it, err := h.catalog.Item(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Item(*it))
}

// Mine: GET /api/items/mine
func (h *ItemController) Mine(c *ctx.Context) {
	items, err := h.catalog.MyItems(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Many(resources.Item, items))
}

// Store accepts JSON, or multipart/form-data with an optional image file.
func (h *ItemController) Store(c *ctx.Context) {
	var (
		in    services.ItemInput
		image *services.Upload
	)
	if isMultipart(c.R) {
		file, header, ok := h.parseForm(c, &in)
		if !ok {
			return
		}
		if file != nil {
			defer file.Close()
			image = upload(file, header)
		}
	} else if !c.BindJSON(&in) {
		return
	}

	it, err := h.catalog.CreateItem(c.Context(), c.UserID(), in, image)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Item(*it))
}

func (h *ItemController) Update(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in services.ItemUpdate
	if !c.BindJSON(&in) {
		return
	}
	it, err := h.catalog.UpdateItem(c.Context(), c.UserID(), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Item(*it))
}

func (h *ItemController) Destroy(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteItem(c.Context(), c.UserID(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

// UploadImage: POST /api/items/{id}/image (multipart, field "image")
func (h *ItemController) UploadImage(c *ctx.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := c.R.ParseMultipartForm(bind.MaxBodyBytes()); err != nil {
		c.Error(http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := c.R.FormFile(imageField)
	if err != nil {
		c.ValidationError(map[string]string{imageField: "image file is required"})
		return
	}
	defer file.Close()

	it, err := h.catalog.AttachImage(c.Context(), c.UserID(), id, *upload(file, header))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Item(*it))
}

// parseForm fills in from the form fields and validates it. The image file
// is nil when none was sent.
func (h *ItemController) parseForm(c *ctx.Context, in *services.ItemInput) (multipart.File, *multipart.FileHeader, bool) {
	if err := c.R.ParseMultipartForm(bind.MaxBodyBytes()); err != nil {
		c.Error(http.StatusBadRequest, "invalid multipart form")
		return nil, nil, false
	}
	errs := map[string]string{}
	in.Name = c.R.FormValue("name")
	in.Description = c.R.FormValue("description")
	if raw := c.R.FormValue("price"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs["price"] = "The price field must be a whole number."
		}
		in.Price = n
	}
	if raw := c.R.FormValue("available"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs["available"] = "The available field must be true or false."
		}
		in.Available = &b
	}
	for k, v := range validate.Struct(in) {
		if _, seen := errs[k]; !seen {
			errs[k] = v
		}
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return nil, nil, false
	}

	file, header, err := c.R.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, true
	}
	if err != nil {
		c.Error(http.StatusBadRequest, "invalid image upload")
		return nil, nil, false
	}
	return file, header, true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func upload(file multipart.File, header *multipart.FileHeader) *services.Upload {
	return &services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
}

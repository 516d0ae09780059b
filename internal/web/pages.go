package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog/internal/models"
	"catalog/internal/storage"
	"catalog/internal/store"
)

type ViewData map[string]any

// formValues echoes what the user typed back into the product form.
type formValues struct {
	Name        string
	Description string
	Price       string
	Image       string
}

func formFromProduct(p *models.Product) formValues {
	return formValues{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.PriceString(),
		Image:       p.Image,
	}
}

// Pages renders the server-side HTML pages and handles form posts.
type Pages struct {
	products       store.Products
	uploader       storage.Uploader
	uploadMaxBytes int64
}

// New returns Pages. uploader may be nil; forms then only accept image URLs.
func New(products store.Products, uploader storage.Uploader, uploadMaxBytes int64) *Pages {
	return &Pages{products: products, uploader: uploader, uploadMaxBytes: uploadMaxBytes}
}

// Register mounts the page routes on r. The engine must have the session
// middleware and the view templates installed.
func (p *Pages) Register(r gin.IRouter) {
	r.GET("/", p.list)
	r.GET("/products/new", p.newForm)
	r.POST("/products", p.create)
	r.GET("/products/:id", p.detail)
	r.GET("/products/:id/edit", p.editForm)
	r.POST("/products/:id", p.update)
	r.POST("/products/:id/delete", p.delete)
}

// withFlash adds pending flash messages to data and clears them.
func withFlash(c *gin.Context, data ViewData) ViewData {
	if data == nil {
		data = ViewData{}
	}
	sess := sessions.Default(c)
	if flashes := sess.Flashes(); len(flashes) > 0 {
		data["Flashes"] = flashes
		_ = sess.Save()
	}
	return data
}

func flash(c *gin.Context, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg)
	if err := sess.Save(); err != nil {
		zap.S().Warnf("save session: %v", err)
	}
}

// NotFound renders the not-found page.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound.tmpl", withFlash(c, ViewData{"Title": "Not found"}))
}

func serverError(c *gin.Context, what string, err error) {
	_ = c.Error(err)
	zap.S().Errorf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, what, err)
	c.HTML(http.StatusInternalServerError, "error.tmpl", ViewData{"Title": "Error"})
}

// loadProduct resolves :id, rendering the 404 or 500 page itself on failure.
func (p *Pages) loadProduct(c *gin.Context) (*models.Product, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		NotFound(c)
		return nil, false
	}
	item, err := p.products.Get(c.Request.Context(), uint(id))
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c)
		return nil, false
	}
	if err != nil {
		serverError(c, "load product", err)
		return nil, false
	}
	return item, true
}

func (p *Pages) list(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	items, err := p.products.List(c.Request.Context(), q)
	if err != nil {
		serverError(c, "list products", err)
		return
	}
	c.HTML(http.StatusOK, "list.tmpl", withFlash(c, ViewData{"Items": items, "Query": q}))
}

func (p *Pages) detail(c *gin.Context) {
	item, ok := p.loadProduct(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "detail.tmpl", withFlash(c, ViewData{"Title": item.Name, "Item": item}))
}

func (p *Pages) newForm(c *gin.Context) {
	c.HTML(http.StatusOK, "form.tmpl", withFlash(c, ViewData{
		"Title": "New product", "Mode": "create", "Action": "/products", "Form": formValues{},
	}))
}

func (p *Pages) editForm(c *gin.Context) {
	item, ok := p.loadProduct(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "form.tmpl", withFlash(c, ViewData{
		"Title": "Edit " + item.Name, "Mode": "edit", "Item": item,
		"Action": fmt.Sprintf("/products/%d", item.ID), "Form": formFromProduct(item),
	}))
}

// readForm parses the posted product form. An uploaded image file wins over
// the image URL field; it is only sent to storage once the rest of the form
// is valid.
func (p *Pages) readForm(c *gin.Context) (models.Fields, formValues, error) {
	storage.LimitBody(c.Writer, c.Request, p.uploadMaxBytes)
	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		if storage.IsBodyTooLarge(err) {
			return models.Fields{}, formValues{}, storage.ErrTooLarge
		}
		return models.Fields{}, formValues{}, models.Invalid("Could not read the submitted form")
	}

	form := formValues{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Image:       strings.TrimSpace(c.PostForm("image")),
	}
	fh, err := c.FormFile("image_file")
	if err != nil || fh.Size == 0 {
		fh = nil
	}

	price, err := models.ParsePrice(form.Price)
	if err != nil {
		if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Description) == "" {
			return models.Fields{}, form, models.Invalid(models.MsgMissingFields)
		}
		return models.Fields{}, form, err
	}
	f := models.Fields{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Image:       form.Image,
	}.Normalize()
	if fh != nil {
		f.Image = ""
	}
	if err := f.Validate(); err != nil {
		return models.Fields{}, form, err
	}
	if fh == nil {
		return f, form, nil
	}

	url, err := storage.UploadImage(c.Request.Context(), p.uploader, fh, p.uploadMaxBytes)
	if errors.Is(err, storage.ErrNotConfigured) {
		return models.Fields{}, form, models.Invalid("Image uploads are not configured; paste an image URL instead")
	}
	if err != nil {
		return models.Fields{}, form, err
	}
	f.Image, form.Image = url, url
	return f, form, nil
}

func (p *Pages) renderFormError(c *gin.Context, data ViewData, err error) {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		data["Error"] = models.MsgImageTooLarge
		c.HTML(http.StatusRequestEntityTooLarge, "form.tmpl", withFlash(c, data))
		return
	case errors.Is(err, storage.ErrNotImage):
		data["Error"] = "Only image files can be uploaded"
		c.HTML(http.StatusBadRequest, "form.tmpl", withFlash(c, data))
		return
	}
	if !models.IsValidation(err) {
		_ = c.Error(err)
		zap.S().Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		data["Error"] = "Error saving product"
		c.HTML(http.StatusInternalServerError, "form.tmpl", withFlash(c, data))
		return
	}
	data["Error"] = err.Error()
	c.HTML(http.StatusBadRequest, "form.tmpl", withFlash(c, data))
}

func (p *Pages) create(c *gin.Context) {
	f, form, err := p.readForm(c)
	data := ViewData{"Title": "New product", "Mode": "create", "Action": "/products", "Form": form}
	if err != nil {
		p.renderFormError(c, data, err)
		return
	}
	item, err := p.products.Create(c.Request.Context(), f)
	if err != nil {
		p.renderFormError(c, data, err)
		return
	}
	flash(c, fmt.Sprintf("Created %q", item.Name))
	c.Redirect(http.StatusSeeOther, "/")
}

func (p *Pages) update(c *gin.Context) {
	item, ok := p.loadProduct(c)
	if !ok {
		return
	}
	f, form, err := p.readForm(c)
	data := ViewData{
		"Title": "Edit " + item.Name, "Mode": "edit", "Item": item,
		"Action": fmt.Sprintf("/products/%d", item.ID), "Form": form,
	}
	if err != nil {
		p.renderFormError(c, data, err)
		return
	}
	updated, err := p.products.Update(c.Request.Context(), item.ID, f)
	if errors.Is(err, store.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		p.renderFormError(c, data, err)
		return
	}
	flash(c, fmt.Sprintf("Saved %q", updated.Name))
	c.Redirect(http.StatusSeeOther, "/")
}

func (p *Pages) delete(c *gin.Context) {
	item, ok := p.loadProduct(c)
	if !ok {
		return
	}
	err := p.products.Delete(c.Request.Context(), item.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		serverError(c, "delete product", err)
		return
	}
	flash(c, fmt.Sprintf("Deleted %q", item.Name))
	c.Redirect(http.StatusSeeOther, "/")
}

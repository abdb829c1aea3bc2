package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/storage"
)

const (
	pageParam    = "page"
	perPageParam = "per_page"
	totalHeader  = "X-Total-Count"
)

type collection[T any] interface {
	Entity() string
	Get(ctx context.Context, id int64) (*T, error)
	Query(ctx context.Context, page storage.Page, filters ...storage.Filter) ([]T, int, error)
	ParseFilter(field, expr string) (storage.Filter, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id int64, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// resource serves list, get, create, update and delete for one collection.
type resource[T any] struct {
	coll     collection[T]
	pageSize int
}

// register mounts the collection both with and without the trailing slash,
// so clients that do not follow redirects reach the same handlers.
func register[T any](group *gin.RouterGroup, path string, coll collection[T], pageSize int) {
	r := &resource[T]{coll: coll, pageSize: pageSize}
	g := group.Group(path)
	g.GET("", r.list)
	g.GET("/", r.list)
	g.POST("", r.create)
	g.POST("/", r.create)
	g.GET("/:id", r.get)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.remove)
}

func (r *resource[T]) list(c *gin.Context) {
	page, err := pageFromQuery(c, r.pageSize)
	if err != nil {
		r.fail(c, err)
		return
	}

	var filters []storage.Filter
	for field, values := range c.Request.URL.Query() {
		if field == pageParam || field == perPageParam {
			continue
		}
		for _, expr := range values {
			f, err := r.coll.ParseFilter(field, expr)
			if err != nil {
				r.fail(c, err)
				return
			}
			filters = append(filters, f)
		}
	}

	items, total, err := r.coll.Query(c.Request.Context(), page, filters...)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.Header(totalHeader, strconv.Itoa(total))
	c.JSON(http.StatusOK, items)
}

func (r *resource[T]) get(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}
	item, err := r.coll.Get(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r *resource[T]) create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := r.coll.Create(c.Request.Context(), &item); err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// update merges the fields present in the body into the stored record.
func (r *resource[T]) update(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	item, err := r.coll.Update(c.Request.Context(), id, func(item *T) error {
		if err := json.Unmarshal(body, item); err != nil {
			return customerr.Invalid("body", "%v", err)
		}
		return nil
	})
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r *resource[T]) remove(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}
	if err := r.coll.Delete(c.Request.Context(), id); err != nil {
		r.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *resource[T]) id(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": r.coll.Entity() + " not found"})
		return 0, false
	}
	return id, true
}

func (r *resource[T]) fail(c *gin.Context, err error) {
	writeError(c, err)
}

func pageFromQuery(c *gin.Context, defaultSize int) (storage.Page, error) {
	number, err := intParam(c, pageParam)
	if err != nil {
		return storage.Page{}, err
	}
	size, err := intParam(c, perPageParam)
	if err != nil {
		return storage.Page{}, err
	}
	if c.Query(perPageParam) == "" {
		size = defaultSize
	}
	return storage.NewPage(number, size)
}

func intParam(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, customerr.Invalid(name, "%q is not a number", raw)
	}
	return v, nil
}

package handlers

import (
	"catalog/models"
	"catalog/service"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// multipart framing allowance on top of the image itself
const formOverheadBytes = 1 << 20

var maxImageBytes int64 = 5 << 20

// ListProducts returns every product, newest first
func ListProducts(c *gin.Context) {
	products, err := service.GlobalServices.Products.List(c.Request.Context())
	if err != nil {
		abortWithError(c, "Products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product
func GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := service.GlobalServices.Products.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, "Products", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct accepts multipart (with an optional image file) or JSON
func CreateProduct(c *gin.Context) {
	in, upload, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := service.GlobalServices.Products.Create(c.Request.Context(), adminID(c), in, upload)
	if err != nil {
		abortWithError(c, "Products", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct merges the supplied fields over the stored product
func UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	in, upload, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := service.GlobalServices.Products.Update(c.Request.Context(), adminID(c), id, in, upload)
	if err != nil {
		abortWithError(c, "Products", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product and its stored image
func DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if _, err := service.GlobalServices.Products.Delete(c.Request.Context(), adminID(c), id); err != nil {
		abortWithError(c, "Products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func productID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return 0, false
	}
	return uint(id), true
}

// bindProduct reads product fields from a multipart, urlencoded or JSON body.
// It writes the 400 response itself and reports false on failure.
func bindProduct(c *gin.Context) (models.ProductInput, *service.ImageUpload, bool) {
	fields := map[string]interface{}{}
	var upload *service.ImageUpload

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+formOverheadBytes)
		form, err := c.MultipartForm()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				badRequest(c, imageTooLargeMessage())
				return models.ProductInput{}, nil, false
			}
			badRequest(c, "Invalid form data")
			return models.ProductInput{}, nil, false
		}
		for key, values := range form.Value {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		if files := form.File["image"]; len(files) > 0 {
			fh := files[0]
			if fh.Size > maxImageBytes {
				badRequest(c, imageTooLargeMessage())
				return models.ProductInput{}, nil, false
			}
			f, err := fh.Open()
			if err != nil {
				badRequest(c, "Invalid form data")
				return models.ProductInput{}, nil, false
			}
			data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
			f.Close()
			if err != nil {
				badRequest(c, "Invalid form data")
				return models.ProductInput{}, nil, false
			}
			if int64(len(data)) > maxImageBytes {
				badRequest(c, imageTooLargeMessage())
				return models.ProductInput{}, nil, false
			}
			upload = &service.ImageUpload{Filename: fh.Filename, Data: data}
		}

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			badRequest(c, "Invalid form data")
			return models.ProductInput{}, nil, false
		}
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}

	default:
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&fields); err != nil && !errors.Is(err, io.EOF) {
				badRequest(c, "Invalid JSON body")
				return models.ProductInput{}, nil, false
			}
		}
	}

	in, err := productInputFromFields(fields)
	if err != nil {
		badRequest(c, err.Error())
		return models.ProductInput{}, nil, false
	}
	return in, upload, true
}

func imageTooLargeMessage() string {
	return fmt.Sprintf("Image must be %d MB or smaller", maxImageBytes>>20)
}

// productInputFromFields converts loosely typed request fields. Absent keys stay nil
// so updates keep their stored values.
func productInputFromFields(fields map[string]interface{}) (models.ProductInput, error) {
	var in models.ProductInput

	if v, ok := fields["name"]; ok && v != nil {
		s := cast.ToString(v)
		in.Name = &s
	}
	if v, ok := fields["category"]; ok && v != nil {
		s := cast.ToString(v)
		in.Category = &s
	}
	if v, ok := fields["price"]; ok && !isBlank(v) {
		n, err := toAmount(v)
		if err != nil {
			return in, errors.New("Invalid price")
		}
		in.Price = &n
	}
	// only an explicit JSON null clears old_price; a blank form value is ignored
	if v, ok := fields["old_price"]; ok {
		switch {
		case v == nil:
			in.OldPriceSet = true
		case !isBlank(v):
			n, err := toAmount(v)
			if err != nil {
				return in, errors.New("Invalid old_price")
			}
			in.OldPriceSet = true
			in.OldPrice = &n
		}
	}
	if v, ok := fields["in_stock"]; ok && !isBlank(v) {
		b := looseBool(v)
		in.InStock = &b
	}
	if v, ok := fields["image"]; ok && v != nil {
		if s := strings.TrimSpace(cast.ToString(v)); s != "" {
			in.Image = &s
		}
	}
	if v, ok := fields["badges"]; ok {
		list, err := toTextList(v)
		if err != nil {
			return in, errors.New("Invalid badges")
		}
		in.Badges = &list
	}
	if v, ok := fields["specifications"]; ok {
		list, err := toTextList(v)
		if err != nil {
			return in, errors.New("Invalid specifications")
		}
		in.Specifications = &list
	}
	return in, nil
}

func isBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toAmount(v interface{}) (int64, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative amount")
	}
	return n, nil
}

// looseBool accepts true or "true"; anything else is false.
func looseBool(v interface{}) bool {
	if s, ok := v.(string); ok {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// toTextList accepts a JSON array or a string holding one, as multipart forms send it.
func toTextList(v interface{}) ([]string, error) {
	var items []string
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}, nil
		}
		if err := json.Unmarshal([]byte(t), &items); err != nil {
			return nil, err
		}
	default:
		list, err := cast.ToStringSliceE(t)
		if err != nil {
			return nil, err
		}
		items = list
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

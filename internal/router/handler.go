package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"shopfront/pkg/authapi"
	"shopfront/pkg/cart"
	"shopfront/pkg/catalog"
	"shopfront/pkg/checkout"
	"shopfront/pkg/global"
	"shopfront/pkg/models"
	"shopfront/pkg/session"
)

// API holds the stores and clients the handlers operate on.
type API struct {
	Sessions *session.Store
	Carts    *cart.Store
	Checkout *checkout.Manager
	Catalog  *catalog.Client
	Redis    *redis.Client // nil in dev mode
}

func (api *API) HealthCheck(c *gin.Context) {
	status := map[string]string{"status": "OK"}
	if api.Redis != nil {
		if err := api.Redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Storage connection failed", nil))
			return
		}
		status["storage"] = "Connected"
	} else {
		status["storage"] = "In-memory"
	}
	c.JSON(http.StatusOK, global.SuccessResponse(status))
}

// ---- auth ----

func (api *API) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Email and password are required", []global.ValidationError{
			{Field: "credentials", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	sess, err := api.Sessions.Login(c.Request.Context(), c.GetString(sidKey), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidResponse):
			c.JSON(http.StatusBadGateway, global.ErrorResponse("Login service returned an invalid response", nil))
		default:
			c.JSON(http.StatusUnauthorized, global.ErrorResponse(err.Error(), nil))
		}
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"user": sess}))
}

func (api *API) Register(c *gin.Context) {
	form := authapi.RegisterForm{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Phone:    c.PostForm("phone"),
		Address:  c.PostForm("address"),
		Type:     c.PostForm("type"),
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Profile image is required", []global.ValidationError{
			{Field: "image", Message: "image file is required", Code: "required"},
		}))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Could not read profile image", nil))
		return
	}
	defer file.Close()
	form.ImageName = fileHeader.Filename
	form.Image = file

	if err := api.Sessions.Register(c.Request.Context(), form); err != nil {
		var fieldErr *session.ValidationError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Registration rejected", global.FieldErrors(fieldErr.Fields)))
			return
		}
		c.JSON(http.StatusBadGateway, global.ErrorResponse(err.Error(), nil))
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(gin.H{"message": "Registration successful. Please log in."}))
}

func (api *API) Logout(c *gin.Context) {
	api.Sessions.Logout(c.Request.Context(), c.GetString(sidKey))
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"message": "Logged out"}))
}

// GetSession returns the hydrated session, or a null user for guests.
func (api *API) GetSession(c *gin.Context) {
	sess := api.Sessions.Current(c.Request.Context(), c.GetString(sidKey))
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"user": sess}))
}

// ---- cart ----

func (api *API) GetCart(c *gin.Context) {
	view := api.Carts.View(c.Request.Context(), c.GetString(sidKey))
	c.JSON(http.StatusOK, global.SuccessResponse(view))
}

// AddCartItem resolves the product through the catalog so the line item
// captures its name, price and display attributes.
func (api *API) AddCartItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	product, err := api.Catalog.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
				{Field: "product_id", Message: "No product exists with this id", Code: "not_found"},
			}))
			return
		}
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to fetch product", nil))
		return
	}

	api.Carts.AddItem(c.Request.Context(), c.GetString(sidKey), *product, req.Quantity)
	c.JSON(http.StatusOK, global.SuccessResponse(api.Carts.View(c.Request.Context(), c.GetString(sidKey))))
}

func (api *API) UpdateCartItem(c *gin.Context) {
	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "quantity", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	sid := c.GetString(sidKey)
	api.Carts.UpdateQuantity(c.Request.Context(), sid, c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, global.SuccessResponse(api.Carts.View(c.Request.Context(), sid)))
}

func (api *API) RemoveCartItem(c *gin.Context) {
	sid := c.GetString(sidKey)
	api.Carts.RemoveItem(c.Request.Context(), sid, c.Param("id"))
	c.JSON(http.StatusOK, global.SuccessResponse(api.Carts.View(c.Request.Context(), sid)))
}

func (api *API) ClearCart(c *gin.Context) {
	sid := c.GetString(sidKey)
	api.Carts.Clear(c.Request.Context(), sid)
	c.JSON(http.StatusOK, global.SuccessResponse(api.Carts.View(c.Request.Context(), sid)))
}

// ---- checkout ----

// flowView is the wire shape of a checkout flow. Card details are never
// echoed back.
type flowView struct {
	Step          string              `json:"step"`
	Shipping      models.ShippingInfo `json:"shipping"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	Pricing       models.Pricing      `json:"pricing"`
	OrderID       string              `json:"order_id,omitempty"`
}

func (api *API) viewFlow(c *gin.Context, flow checkout.Flow) flowView {
	view := flowView{
		Step:          flow.Step.String(),
		Shipping:      flow.Shipping,
		PaymentMethod: flow.Payment.Method,
		OrderID:       flow.OrderID,
	}
	// The cart is already cleared once the order is placed; quoting it
	// again on the confirmation step would show a bogus empty-cart price.
	if flow.Step != checkout.StepConfirmation {
		view.Pricing = api.Checkout.PriceCart(c.Request.Context(), c.GetString(sidKey))
	}
	return view
}

func (api *API) BeginCheckout(c *gin.Context) {
	flow, err := api.Checkout.Begin(c.Request.Context(), c.GetString(sidKey))
	if err != nil {
		c.JSON(http.StatusConflict, global.ErrorResponse("Your cart is empty", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(api.viewFlow(c, flow)))
}

func (api *API) GetCheckout(c *gin.Context) {
	flow, err := api.Checkout.Current(c.GetString(sidKey))
	if err != nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("No active checkout", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(api.viewFlow(c, flow)))
}

func (api *API) CheckoutNext(c *gin.Context) {
	var form struct {
		Shipping *models.ShippingInfo   `json:"shipping"`
		Payment  *models.PaymentDetails `json:"payment"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
				{Field: "request", Message: err.Error(), Code: "validation_error"},
			}))
			return
		}
	}

	flow, err := api.Checkout.Next(c.Request.Context(), c.GetString(sidKey), checkout.StepForm{
		Shipping: form.Shipping,
		Payment:  form.Payment,
	})
	if err != nil {
		var fieldErr *checkout.ValidationError
		switch {
		case errors.As(err, &fieldErr):
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Please fix the highlighted fields", global.FieldErrors(fieldErr.Fields)))
		case errors.Is(err, checkout.ErrNoActiveFlow):
			c.JSON(http.StatusNotFound, global.ErrorResponse("No active checkout", nil))
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusConflict, global.ErrorResponse("Your cart is empty", nil))
		case errors.Is(err, checkout.ErrOrderPlacementFailed):
			c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to place order. Please try again.", nil))
		default:
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Checkout failed", nil))
		}
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(api.viewFlow(c, flow)))
}

func (api *API) CheckoutBack(c *gin.Context) {
	flow, err := api.Checkout.Back(c.GetString(sidKey))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoActiveFlow):
			c.JSON(http.StatusNotFound, global.ErrorResponse("No active checkout", nil))
		case errors.Is(err, checkout.ErrTerminalStep):
			c.JSON(http.StatusConflict, global.ErrorResponse("Order already placed", nil))
		default:
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Checkout failed", nil))
		}
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(api.viewFlow(c, flow)))
}

func (api *API) AbandonCheckout(c *gin.Context) {
	api.Checkout.Abandon(c.GetString(sidKey))
	c.JSON(http.StatusOK, global.SuccessResponse(gin.H{"message": "Checkout abandoned"}))
}

// ---- catalog passthrough ----

func (api *API) GetProducts(c *gin.Context) {
	products, err := api.Catalog.Products(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to fetch products", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func (api *API) GetProduct(c *gin.Context) {
	product, err := api.Catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to fetch product", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (api *API) GetCategories(c *gin.Context) {
	categories, err := api.Catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to fetch categories", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}

func (api *API) GetBrands(c *gin.Context) {
	brands, err := api.Catalog.Brands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, global.ErrorResponse("Failed to fetch brands", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(brands))
}

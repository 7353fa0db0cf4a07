package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/internal/apperr"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/payment"
	"ecommerce-api/internal/repository"
	"ecommerce-api/internal/session"
)

// In-memory doubles for the store interfaces, so handler tests run without
// MongoDB or Redis.

type fakeUserStore struct {
	users           map[primitive.ObjectID]*models.User
	completedOrders []primitive.ObjectID
	lastUpdate      bson.M
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) add(user *models.User) *models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperr.New(apperr.DuplicateEmail, "User already exists")
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "User not found")
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid user ID format")
	}
	user, ok := s.users[objID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) FindAll(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeUserStore) Update(_ context.Context, id string, update bson.M) error {
	user, err := s.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	s.lastUpdate = update
	if name, ok := update["name"].(string); ok {
		s.users[user.ID].Name = name
	}
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	user, err := s.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	delete(s.users, user.ID)
	return nil
}

func (s *fakeUserStore) AddToCart(_ context.Context, userID, productID primitive.ObjectID, quantity int) error {
	user, ok := s.users[userID]
	if !ok {
		return apperr.New(apperr.NotFound, "User not found")
	}
	for i := range user.Cart {
		if user.Cart[i].Product == productID {
			user.Cart[i].Quantity += quantity
			return nil
		}
	}
	user.Cart = append(user.Cart, models.CartItem{Product: productID, Quantity: quantity})
	return nil
}

func (s *fakeUserStore) ToggleWishlist(_ context.Context, userID, productID primitive.ObjectID) (bool, error) {
	user, ok := s.users[userID]
	if !ok {
		return false, apperr.New(apperr.NotFound, "User not found")
	}
	for i, id := range user.Wishlist {
		if id == productID {
			user.Wishlist = append(user.Wishlist[:i], user.Wishlist[i+1:]...)
			return false, nil
		}
	}
	user.Wishlist = append(user.Wishlist, productID)
	return true, nil
}

func (s *fakeUserStore) CompleteOrder(_ context.Context, userID, orderID primitive.ObjectID) error {
	user, ok := s.users[userID]
	if !ok {
		return apperr.New(apperr.NotFound, "User not found")
	}
	user.Cart = []models.CartItem{}
	user.Orders = append(user.Orders, orderID)
	s.completedOrders = append(s.completedOrders, orderID)
	return nil
}

type fakeProductStore struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[primitive.ObjectID]*models.Product)}
}

func (s *fakeProductStore) add(product *models.Product) *models.Product {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	s.products[product.ID] = product
	return product
}

func (s *fakeProductStore) Create(_ context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.InStock = product.StockQuantity > 0
	s.products[product.ID] = product
	return nil
}

func (s *fakeProductStore) FindByID(_ context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid product ID")
	}
	product, ok := s.products[objID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	copied := *product
	return &copied, nil
}

func (s *fakeProductStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	out := make(map[primitive.ObjectID]*models.Product)
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			copied := *product
			out[id] = &copied
		}
	}
	return out, nil
}

func (s *fakeProductStore) FindAll(_ context.Context, _ repository.ProductFilter) ([]*models.Product, int64, error) {
	out := make([]*models.Product, 0, len(s.products))
	for _, product := range s.products {
		copied := *product
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (s *fakeProductStore) Update(_ context.Context, id string, update bson.M) error {
	product, err := s.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if qty, ok := update["stockQuantity"].(int); ok {
		s.products[product.ID].StockQuantity = qty
		s.products[product.ID].InStock = qty > 0
	}
	return nil
}

func (s *fakeProductStore) Delete(_ context.Context, id string) error {
	product, err := s.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	delete(s.products, product.ID)
	return nil
}

func (s *fakeProductStore) AddReview(_ context.Context, id string, review models.Review) error {
	product, err := s.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	stored := s.products[product.ID]
	stored.Reviews = append(stored.Reviews, review)
	total := 0.0
	for _, rev := range stored.Reviews {
		total += rev.Rating
	}
	stored.AverageRating = total / float64(len(stored.Reviews))
	return nil
}

type fakeOrderStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (s *fakeOrderStore) add(order *models.Order) *models.Order {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders[order.ID] = order
	return order
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	s.orders[order.ID] = order
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id string) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid order ID")
	}
	order, ok := s.orders[objID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) FindAll(_ context.Context) ([]*models.Order, error) {
	out := make([]*models.Order, 0, len(s.orders))
	for _, order := range s.orders {
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id string, status string) error {
	order, err := s.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	s.orders[order.ID].OrderStatus = status
	return nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id string) error {
	order, err := s.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	delete(s.orders, order.ID)
	return nil
}

type fakeGateway struct {
	lastParams payment.CheckoutParams
	calls      int
	url        string
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, params payment.CheckoutParams) (string, error) {
	g.lastParams = params
	g.calls++
	if g.url == "" {
		return "https://checkout.example.com/session", nil
	}
	return g.url, nil
}

// fakeSessionStore backs a session.Manager in tests.
type fakeSessionStore struct {
	records map[string]*session.Payload
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{records: make(map[string]*session.Payload)}
}

func (s *fakeSessionStore) Get(_ context.Context, id string) (*session.Payload, error) {
	payload, ok := s.records[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	copied := *payload
	return &copied, nil
}

func (s *fakeSessionStore) Set(_ context.Context, id string, payload *session.Payload, _ time.Duration) error {
	copied := *payload
	s.records[id] = &copied
	return nil
}

func (s *fakeSessionStore) Destroy(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return session.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

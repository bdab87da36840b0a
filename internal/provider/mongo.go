package provider

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"oventreats/internal/models"
	"oventreats/internal/store"
)

// MongoBackend keeps products and orders as documents with camelCase fields,
// native BSON dates and server-assigned object ids. Both directions of the
// domain-model mapping live here; nothing above this file sees a BSON type.
type MongoBackend struct {
	db *mongo.Database
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{db: db}
}

type mongoProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Available   bool               `bson:"available"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d mongoProduct) domain() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
		Available:   d.Available,
	}
}

type mongoOrder struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Items         []models.CartItem  `bson:"items"`
	Total         float64            `bson:"total"`
	Status        string             `bson:"status"`
	CustomerName  string             `bson:"customerName"`
	CustomerPhone string             `bson:"customerPhone"`
	CustomerEmail string             `bson:"customerEmail"`
	OrderDate     time.Time          `bson:"orderDate"`
	DeliveryDate  time.Time          `bson:"deliveryDate"`
	EstimatedTime string             `bson:"estimatedTime,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d mongoOrder) domain() models.Order {
	return models.Order{
		ID:            d.ID.Hex(),
		Items:         d.Items,
		Total:         d.Total,
		Status:        d.Status,
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		CustomerEmail: d.CustomerEmail,
		OrderDate:     d.OrderDate,
		DeliveryDate:  d.DeliveryDate,
		EstimatedTime: d.EstimatedTime,
	}
}

func (m *MongoBackend) GetProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.db.Collection("products").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	var docs []mongoProduct
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.domain())
	}
	return products, nil
}

func (m *MongoBackend) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	now := time.Now()
	doc := mongoProduct{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Available:   p.Available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := m.db.Collection("products").InsertOne(ctx, doc)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to add product: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.domain(), nil
}

func (m *MongoBackend) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Available != nil {
		set["available"] = *upd.Available
	}

	_, err = m.db.Collection("products").UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (m *MongoBackend) DeleteProduct(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := m.db.Collection("products").DeleteOne(ctx, bson.M{"_id": objectID}); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (m *MongoBackend) GetOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := m.db.Collection("orders").Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	var docs []mongoOrder
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.domain())
	}
	return orders, nil
}

func (m *MongoBackend) AddOrder(ctx context.Context, n models.NewOrder) (models.Order, error) {
	now := time.Now()
	doc := mongoOrder{
		Items:         n.Items,
		Total:         n.Total,
		Status:        models.StatusPending,
		CustomerName:  n.CustomerName,
		CustomerPhone: n.CustomerPhone,
		CustomerEmail: n.CustomerEmail,
		OrderDate:     now,
		DeliveryDate:  n.DeliveryDate,
		EstimatedTime: n.EstimatedTime,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	res, err := m.db.Collection("orders").InsertOne(ctx, doc)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to add order: %w", err)
	}
	doc.ID, _ = res.InsertedID.(primitive.ObjectID)
	return doc.domain(), nil
}

func (m *MongoBackend) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	objectID, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil
	}
	_, err = m.db.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// GetCustomers derives the customer set from the backend's order log, the
// same projection the local store maintains.
func (m *MongoBackend) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	orders, err := m.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	return store.ProjectCustomers(orders), nil
}

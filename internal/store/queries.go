// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/olegiv/chakravya/internal/model"
)

// Queries wraps a gorm handle with the application's data access methods.
type Queries struct {
	db *gorm.DB
}

// New creates a Queries bound to db.
func New(db *gorm.DB) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries that runs inside tx.
func (q *Queries) WithTx(tx *gorm.DB) *Queries {
	return &Queries{db: tx}
}

// Ping checks that the database answers.
func (q *Queries) Ping(ctx context.Context) error {
	sqlDB, err := q.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

// ---- users ----

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := q.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	return u, err
}

// GetUserByEmail returns the user with the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := q.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	return u, err
}

// CreateUser inserts a user, assigning an id when none is set.
func (q *Queries) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	return q.db.WithContext(ctx).Create(u).Error
}

// UpsertUser inserts a user or refreshes the profile fields of an existing one.
func (q *Queries) UpsertUser(ctx context.Context, u *model.User) (model.User, error) {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	u.UpdatedAt = now()

	err := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, u.ID)
}

// UpdateUserProfile sets the non-nil profile fields of in on the user.
func (q *Queries) UpdateUserProfile(ctx context.Context, id string, in model.ProfileInput) (model.User, error) {
	updates := map[string]any{"updated_at": now()}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.ProfileImageURL != nil {
		updates["profile_image_url"] = *in.ProfileImageURL
	}

	res := q.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return model.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.User{}, ErrNotFound
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id, hash string) error {
	return q.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": now()}).Error
}

// ---- spiritual tasks ----

// ListSpiritualTasks returns all tasks ordered by title.
func (q *Queries) ListSpiritualTasks(ctx context.Context) ([]model.SpiritualTask, error) {
	var tasks []model.SpiritualTask
	err := q.db.WithContext(ctx).Order("title ASC").Find(&tasks).Error
	return tasks, err
}

// GetSpiritualTask returns the task with the given id.
func (q *Queries) GetSpiritualTask(ctx context.Context, id string) (model.SpiritualTask, error) {
	var t model.SpiritualTask
	err := q.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	return t, err
}

// CreateSpiritualTask inserts a task.
func (q *Queries) CreateSpiritualTask(ctx context.Context, t *model.SpiritualTask) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return q.db.WithContext(ctx).Create(t).Error
}

// CountSpiritualTasks returns the number of tasks.
func (q *Queries) CountSpiritualTasks(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.WithContext(ctx).Model(&model.SpiritualTask{}).Count(&n).Error
	return n, err
}

// ---- user progress ----

// ListUserProgress returns the user's progress rows with their tasks, most recently updated first.
func (q *Queries) ListUserProgress(ctx context.Context, userID string) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := q.db.WithContext(ctx).Preload("Task").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

// ListUserProgressByDate returns the user's progress rows last updated on the given UTC day.
func (q *Queries) ListUserProgressByDate(ctx context.Context, userID string, day time.Time) ([]model.UserProgress, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var rows []model.UserProgress
	err := q.db.WithContext(ctx).Preload("Task").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

// UpsertUserProgress writes the (user, task) row in a single INSERT ... ON
// CONFLICT statement and returns the stored row.
func (q *Queries) UpsertUserProgress(ctx context.Context, p *model.UserProgress) (model.UserProgress, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Date.IsZero() {
		p.Date = now()
	}

	err := q.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"target", "completed", "date"}),
	}).Create(p).Error
	if err != nil {
		return model.UserProgress{}, err
	}

	var out model.UserProgress
	err = q.db.WithContext(ctx).Preload("Task").
		Where("user_id = ? AND task_id = ?", p.UserID, p.TaskID).
		First(&out).Error
	return out, err
}

// ---- products ----

// ListActiveProducts returns active products ordered by tier.
func (q *Queries) ListActiveProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := q.db.WithContext(ctx).Where("active = ?", true).Order("tier ASC").Find(&products).Error
	return products, err
}

// GetProduct returns the product with the given id, active or not.
func (q *Queries) GetProduct(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := q.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return p, err
}

// CreateProduct inserts a product.
func (q *Queries) CreateProduct(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return q.db.WithContext(ctx).Create(p).Error
}

// CountProducts returns the number of products.
func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

// SetProductActive toggles whether a product is listed and orderable.
func (q *Queries) SetProductActive(ctx context.Context, id string, active bool) error {
	return q.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", active).Error
}

// ---- orders ----

// CreateOrder inserts an order.
func (q *Queries) CreateOrder(ctx context.Context, o *model.Order) error {
	if o.ID == "" {
		o.ID = newID()
	}
	return q.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

// GetOrderForUser returns the order only if it belongs to userID.
func (q *Queries) GetOrderForUser(ctx context.Context, orderID, userID string) (model.Order, error) {
	var o model.Order
	err := q.db.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error
	return o, err
}

// GetOrder returns the order with the given id regardless of owner.
func (q *Queries) GetOrder(ctx context.Context, id string) (model.Order, error) {
	var o model.Order
	err := q.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	return o, err
}

// ListOrdersForUser returns the user's orders with their products, newest first.
func (q *Queries) ListOrdersForUser(ctx context.Context, userID string) ([]model.Order, error) {
	var orders []model.Order
	err := q.db.WithContext(ctx).Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// MarkOrderPaid moves a pending order owned by userID to paid in one
// conditional UPDATE. It returns the number of rows changed: zero means the
// order was missing, not owned, or no longer pending.
func (q *Queries) MarkOrderPaid(ctx context.Context, orderID, userID, paymentID string) (int64, error) {
	res := q.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", orderID, userID, model.OrderPending).
		Updates(map[string]any{
			"status":     model.OrderPaid,
			"payment_id": paymentID,
			"updated_at": now(),
		})
	return res.RowsAffected, res.Error
}

// UpdateOrderStatus moves an order from one status to another in a single
// conditional UPDATE. It returns the number of rows changed: zero means the
// order was missing or not in status from.
func (q *Queries) UpdateOrderStatus(ctx context.Context, orderID, from, to string) (int64, error) {
	res := q.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]any{"status": to, "updated_at": now()})
	return res.RowsAffected, res.Error
}

// ---- contact submissions ----

// CreateContactSubmission inserts a submission with status unread.
func (q *Queries) CreateContactSubmission(ctx context.Context, c *model.ContactSubmission) error {
	if c.ID == "" {
		c.ID = newID()
	}
	c.Status = model.ContactUnread
	return q.db.WithContext(ctx).Create(c).Error
}

// ListContactSubmissions returns all submissions, newest first.
func (q *Queries) ListContactSubmissions(ctx context.Context) ([]model.ContactSubmission, error) {
	var subs []model.ContactSubmission
	err := q.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// UpdateContactSubmissionStatus changes a submission's status and returns it.
func (q *Queries) UpdateContactSubmissionStatus(ctx context.Context, id, status string) (model.ContactSubmission, error) {
	res := q.db.WithContext(ctx).Model(&model.ContactSubmission{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return model.ContactSubmission{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.ContactSubmission{}, ErrNotFound
	}

	var c model.ContactSubmission
	err := q.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return c, err
}

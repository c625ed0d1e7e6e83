package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/theseus/internal/models"
)

const (
	inventoryColumns = `id, name, category, status, priority, price, currency, purchase_date, notes,
	ai_reason, tags, created_at, updated_at`
	inventoryCategoryColumns = `id, name, color, created_at`
)

func scanInventoryItem(row scanner) (models.InventoryItem, error) {
	var it models.InventoryItem
	var priority, purchaseDate, notes, aiReason, tags sql.NullString
	var price sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Status, &priority, &price, &it.Currency, &purchaseDate, &notes,
		&aiReason, &tags, &createdAt, &updatedAt)
	if err != nil {
		return models.InventoryItem{}, err
	}
	it.Priority = strPtr(priority)
	it.Price = floatPtr(price)
	it.PurchaseDate = strPtr(purchaseDate)
	it.Notes = strPtr(notes)
	it.AIReason = strPtr(aiReason)
	it.Tags = strPtr(tags)
	it.CreatedAt = parseTime(createdAt)
	it.UpdatedAt = parseTime(updatedAt)
	return it, nil
}

func scanInventoryCategory(row scanner) (models.InventoryCategory, error) {
	var c models.InventoryCategory
	var color sql.NullString
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &color, &createdAt); err != nil {
		return models.InventoryCategory{}, err
	}
	c.Color = strPtr(color)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// ListInventory returns items newest first; callers apply priority ordering
func (r *Repo) ListInventory(ctx context.Context, f models.InventoryFilter) ([]models.InventoryItem, error) {
	var where []string
	var args []interface{}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Tag != "" {
		where = append(where, "tags LIKE ?")
		args = append(args, "%"+f.Tag+"%")
	}

	query := "SELECT " + inventoryColumns + " FROM inventory_items"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repo) GetInventoryItem(ctx context.Context, id int64) (models.InventoryItem, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+inventoryColumns+" FROM inventory_items WHERE id = ?"), id)
	it, err := scanInventoryItem(row)
	if err != nil {
		return models.InventoryItem{}, notFound(fmt.Sprintf("inventory item %d", id), err)
	}
	return it, nil
}

func (r *Repo) CreateInventoryItem(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error) {
	stamp := r.stamp()
	id, err := r.insert(ctx, r.db, "inventory item", `
		INSERT INTO inventory_items (name, category, status, priority, price, currency, purchase_date, notes,
			ai_reason, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.Name, it.Category, it.Status, strArg(it.Priority), floatArg(it.Price), it.Currency, strArg(it.PurchaseDate),
		strArg(it.Notes), strArg(it.AIReason), strArg(it.Tags), stamp, stamp,
	)
	if err != nil {
		return models.InventoryItem{}, err
	}
	return r.GetInventoryItem(ctx, id)
}

func (r *Repo) UpdateInventoryItem(ctx context.Context, it models.InventoryItem) (models.InventoryItem, error) {
	err := r.exec(ctx, r.db, fmt.Sprintf("inventory item %d", it.ID), `
		UPDATE inventory_items SET name = ?, category = ?, status = ?, priority = ?, price = ?, currency = ?,
			purchase_date = ?, notes = ?, ai_reason = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		it.Name, it.Category, it.Status, strArg(it.Priority), floatArg(it.Price), it.Currency,
		strArg(it.PurchaseDate), strArg(it.Notes), strArg(it.AIReason), strArg(it.Tags), r.stamp(),
		it.ID,
	)
	if err != nil {
		return models.InventoryItem{}, err
	}
	return r.GetInventoryItem(ctx, it.ID)
}

func (r *Repo) DeleteInventoryItem(ctx context.Context, id int64) error {
	return r.exec(ctx, r.db, fmt.Sprintf("inventory item %d", id), "DELETE FROM inventory_items WHERE id = ?", id)
}

func (r *Repo) ListInventoryCategories(ctx context.Context) ([]models.InventoryCategory, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+inventoryCategoryColumns+" FROM inventory_categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory categories: %w", err)
	}
	defer rows.Close()

	cats := []models.InventoryCategory{}
	for rows.Next() {
		c, err := scanInventoryCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *Repo) GetInventoryCategory(ctx context.Context, id int64) (models.InventoryCategory, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+inventoryCategoryColumns+" FROM inventory_categories WHERE id = ?"), id)
	c, err := scanInventoryCategory(row)
	if err != nil {
		return models.InventoryCategory{}, notFound(fmt.Sprintf("inventory category %d", id), err)
	}
	return c, nil
}

func (r *Repo) CreateInventoryCategory(ctx context.Context, c models.InventoryCategory) (models.InventoryCategory, error) {
	id, err := r.insert(ctx, r.db, "category "+c.Name,
		"INSERT INTO inventory_categories (name, color, created_at) VALUES (?, ?, ?)",
		c.Name, strArg(c.Color), r.stamp(),
	)
	if err != nil {
		return models.InventoryCategory{}, err
	}
	return r.GetInventoryCategory(ctx, id)
}

func (r *Repo) UpdateInventoryCategory(ctx context.Context, c models.InventoryCategory) (models.InventoryCategory, error) {
	err := r.exec(ctx, r.db, "category "+c.Name,
		"UPDATE inventory_categories SET name = ?, color = ? WHERE id = ?",
		c.Name, strArg(c.Color), c.ID,
	)
	if err != nil {
		return models.InventoryCategory{}, err
	}
	return r.GetInventoryCategory(ctx, c.ID)
}

func (r *Repo) DeleteInventoryCategory(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var name string
		err := tx.QueryRowContext(ctx, r.q("SELECT name FROM inventory_categories WHERE id = ?"), id).Scan(&name)
		if err != nil {
			return notFound(fmt.Sprintf("inventory category %d", id), err)
		}

		var inUse int
		err = tx.QueryRowContext(ctx, r.q("SELECT COUNT(*) FROM inventory_items WHERE category = ?"), name).Scan(&inUse)
		if err != nil {
			return fmt.Errorf("failed to count items in category: %w", err)
		}
		if inUse > 0 {
			return fmt.Errorf("cannot delete category %q: %d item(s) still use it: %w", name, inUse, ErrConflict)
		}

		return r.exec(ctx, tx, fmt.Sprintf("inventory category %d", id), "DELETE FROM inventory_categories WHERE id = ?", id)
	})
}

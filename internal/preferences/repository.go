package preferences

import (
	"context"

	"gorm.io/gorm"

	"github.com/mgolesberg/api-example/pkg/db/models"
)

// Repository wires together preference persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListAllergies returns the whole allergy catalog ordered by name.
func (r *Repository) ListAllergies(ctx context.Context) ([]models.Allergy, error) {
	var rows []models.Allergy
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindAllergy loads one catalog entry by name.
func (r *Repository) FindAllergy(ctx context.Context, name string) (*models.Allergy, error) {
	var allergy models.Allergy
	if err := r.db.WithContext(ctx).First(&allergy, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &allergy, nil
}

// CreateAllergy inserts a catalog entry.
func (r *Repository) CreateAllergy(ctx context.Context, allergy *models.Allergy) (*models.Allergy, error) {
	if err := r.db.WithContext(ctx).Create(allergy).Error; err != nil {
		return nil, err
	}
	return allergy, nil
}

// SaveAllergy updates a catalog entry.
func (r *Repository) SaveAllergy(ctx context.Context, allergy *models.Allergy) (*models.Allergy, error) {
	if err := r.db.WithContext(ctx).Save(allergy).Error; err != nil {
		return nil, err
	}
	return allergy, nil
}

// DeleteAllergy removes a catalog entry by name.
func (r *Repository) DeleteAllergy(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Allergy{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountAllergyLinks counts user links that still reference the catalog entry.
func (r *Repository) CountAllergyLinks(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserAllergy{}).
		Where("allergy_name = ?", name).
		Count(&count).
		Error
	return count, err
}

// ListUserAllergies returns the user's links joined with catalog descriptions.
func (r *Repository) ListUserAllergies(ctx context.Context, userID int64) ([]UserAllergyView, error) {
	var rows []UserAllergyView
	err := r.db.WithContext(ctx).
		Table("user_allergies ua").
		Select("ua.allergy_name, a.description, ua.notes").
		Joins("JOIN allergies a ON a.name = ua.allergy_name").
		Where("ua.user_id = ?", userID).
		Order("ua.allergy_name ASC").
		Scan(&rows).
		Error
	return rows, err
}

// CreateUserAllergy inserts one user link row.
func (r *Repository) CreateUserAllergy(ctx context.Context, link *models.UserAllergy) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// DeleteUserAllergy removes the user's link to the named allergy.
func (r *Repository) DeleteUserAllergy(ctx context.Context, userID int64, name string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND allergy_name = ?", userID, name).
		Delete(&models.UserAllergy{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListInterests returns the user's interests newest first.
func (r *Repository) ListInterests(ctx context.Context, userID int64) ([]models.Interest, error) {
	var rows []models.Interest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindInterest loads one interest row by id.
func (r *Repository) FindInterest(ctx context.Context, id int64) (*models.Interest, error) {
	var row models.Interest
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateInterest inserts an interest row.
func (r *Repository) CreateInterest(ctx context.Context, row *models.Interest) (*models.Interest, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// SaveInterest updates an interest row.
func (r *Repository) SaveInterest(ctx context.Context, row *models.Interest) (*models.Interest, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteInterest removes an interest row by id.
func (r *Repository) DeleteInterest(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Interest{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListDislikes returns the user's dislikes newest first.
func (r *Repository) ListDislikes(ctx context.Context, userID int64) ([]models.Dislike, error) {
	var rows []models.Dislike
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindDislike loads one dislike row by id.
func (r *Repository) FindDislike(ctx context.Context, id int64) (*models.Dislike, error) {
	var row models.Dislike
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateDislike inserts a dislike row.
func (r *Repository) CreateDislike(ctx context.Context, row *models.Dislike) (*models.Dislike, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// SaveDislike updates a dislike row.
func (r *Repository) SaveDislike(ctx context.Context, row *models.Dislike) (*models.Dislike, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// DeleteDislike removes a dislike row by id.
func (r *Repository) DeleteDislike(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Dislike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/locations"
	"github.com/sangkips/shopdesk-api/pkg/logger"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"github.com/sangkips/shopdesk-api/pkg/storage"
	"github.com/sangkips/shopdesk-api/pkg/utils"
	"github.com/sangkips/shopdesk-api/pkg/validation"
	"github.com/sirupsen/logrus"
)

// ShopService handles shop-related operations
type ShopService struct {
	shopRepo    repository.ShopRepository
	billRepo    repository.BillRepository
	storage     storage.Storage
	log         *logrus.Logger
	phoneRegion string
	maxLogoSize int64
}

// NewShopService creates a new shop service
func NewShopService(
	shopRepo repository.ShopRepository,
	billRepo repository.BillRepository,
	store storage.Storage,
	log *logrus.Logger,
	phoneRegion string,
	maxLogoSize int64,
) *ShopService {
	if phoneRegion == "" {
		phoneRegion = validation.DefaultRegion
	}
	return &ShopService{
		shopRepo:    shopRepo,
		billRepo:    billRepo,
		storage:     store,
		log:         log,
		phoneRegion: phoneRegion,
		maxLogoSize: maxLogoSize,
	}
}

// CreateShopInput represents the create shop input
type CreateShopInput struct {
	Name      string
	OwnerName string
	NIC       string
	Address   string
	District  string
	Area      string
	Email     *string
	Phone     string
	WhatsApp  *string
	Username  string
	Password  string
}

// CreateShop validates and stores a new shop
func (s *ShopService) CreateShop(ctx context.Context, input *CreateShopInput) (*entity.Shop, error) {
	shop := &entity.Shop{
		Name:      strings.TrimSpace(input.Name),
		OwnerName: strings.TrimSpace(input.OwnerName),
		NIC:       strings.ToUpper(strings.TrimSpace(input.NIC)),
		Address:   strings.TrimSpace(input.Address),
		District:  strings.TrimSpace(input.District),
		Area:      strings.TrimSpace(input.Area),
		Email:     trimmed(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		WhatsApp:  trimmed(input.WhatsApp),
		Username:  strings.ToLower(strings.TrimSpace(input.Username)),
	}

	var v validation.Collector
	s.validate(&v, shop)
	v.Required("password", input.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, shop.Username, uuid.Nil); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	shop.Password = hashed

	if err := s.shopRepo.Create(ctx, shop); err != nil {
		if isDuplicate(err) {
			return nil, apperror.NewConflictError("Username already taken")
		}
		return nil, err
	}
	return shop, nil
}

// validate checks every stored field and canonicalises the district name.
func (s *ShopService) validate(v *validation.Collector, shop *entity.Shop) {
	v.Required("name", shop.Name)
	v.Required("owner_name", shop.OwnerName)
	v.Required("address", shop.Address)
	v.Required("username", shop.Username)
	if v.Required("nic", shop.NIC) {
		v.NIC("nic", shop.NIC)
	}
	if v.Required("phone", shop.Phone) {
		v.Phone("phone", shop.Phone, s.phoneRegion)
	}
	if shop.WhatsApp != nil {
		v.Phone("whatsapp", *shop.WhatsApp, s.phoneRegion)
	}
	v.Email("email", shop.Email)

	district := v.Required("district", shop.District)
	area := v.Required("area", shop.Area)
	if district && area {
		v.Location("district", shop.District, "area", shop.Area)
	}
	if name, ok := locations.Canonical(shop.District); ok {
		shop.District = name
	}
}

func (s *ShopService) ensureUsernameFree(ctx context.Context, username string, self uuid.UUID) error {
	existing, err := s.shopRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Username already taken")
	}
	return nil
}

// GetShop retrieves a shop by ID
func (s *ShopService) GetShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}
	return shop, nil
}

// ListShops lists shops matching filter
func (s *ShopService) ListShops(ctx context.Context, params *pagination.PaginationParams, filter repository.ShopFilter) (*pagination.PaginatedResult[entity.Shop], error) {
	shops, total, err := s.shopRepo.List(ctx, params, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(shops, pag), nil
}

// UpdateShopInput represents the update shop input. Nil fields are left
// unchanged.
type UpdateShopInput struct {
	ID        uuid.UUID
	Name      *string
	OwnerName *string
	NIC       *string
	Address   *string
	District  *string
	Area      *string
	Email     *string
	Phone     *string
	WhatsApp  *string
	Username  *string
	Password  *string
}

// UpdateShop applies a partial update and re-validates the whole record
func (s *ShopService) UpdateShop(ctx context.Context, input *UpdateShopInput) (*entity.Shop, error) {
	shop, err := s.GetShop(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		shop.Name = strings.TrimSpace(*input.Name)
	}
	if input.OwnerName != nil {
		shop.OwnerName = strings.TrimSpace(*input.OwnerName)
	}
	if input.NIC != nil {
		shop.NIC = strings.ToUpper(strings.TrimSpace(*input.NIC))
	}
	if input.Address != nil {
		shop.Address = strings.TrimSpace(*input.Address)
	}
	if input.District != nil {
		shop.District = strings.TrimSpace(*input.District)
	}
	if input.Area != nil {
		shop.Area = strings.TrimSpace(*input.Area)
	}
	if input.Email != nil {
		shop.Email = trimmed(input.Email)
	}
	if input.Phone != nil {
		shop.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.WhatsApp != nil {
		shop.WhatsApp = trimmed(input.WhatsApp)
	}
	if input.Username != nil {
		shop.Username = strings.ToLower(strings.TrimSpace(*input.Username))
	}

	var v validation.Collector
	s.validate(&v, shop)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if input.Username != nil {
		if err := s.ensureUsernameFree(ctx, shop.Username, shop.ID); err != nil {
			return nil, err
		}
	}

	if input.Password != nil && *input.Password != "" {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		shop.Password = hashed
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		if isDuplicate(err) {
			return nil, apperror.NewConflictError("Username already taken")
		}
		return nil, err
	}
	return shop, nil
}

// DeleteShop removes a shop that has no bills
func (s *ShopService) DeleteShop(ctx context.Context, id uuid.UUID) error {
	shop, err := s.GetShop(ctx, id)
	if err != nil {
		return err
	}

	bills, err := s.billRepo.CountByShop(ctx, id)
	if err != nil {
		return err
	}
	if bills > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Shop has %d bill(s); delete them first", bills))
	}

	if err := s.shopRepo.Delete(ctx, id); err != nil {
		return err
	}
	if shop.LogoURL != nil {
		s.removeLogos(ctx, id, "")
	}
	return nil
}

var logoExtensions = []string{".jpg", ".png"}

func logoKey(shopID uuid.UUID, ext string) string {
	return fmt.Sprintf("shops/%s/logo%s", shopID, ext)
}

// removeLogos deletes stored logo variants except the one with keepExt.
// Every variant shares one thumbnail key, so the thumbnail is only removed
// when nothing is kept.
func (s *ShopService) removeLogos(ctx context.Context, shopID uuid.UUID, keepExt string) {
	var keys []string
	for _, ext := range logoExtensions {
		if ext != keepExt {
			keys = append(keys, logoKey(shopID, ext))
		}
	}
	if keepExt == "" {
		keys = append(keys, storage.ThumbnailKey(logoKey(shopID, "")))
	}
	for _, k := range keys {
		if err := s.storage.Delete(ctx, k); err != nil {
			logger.LogError(s.log, "ShopService", "removeLogos", "delete logo object", k, err)
		}
	}
}

// UploadLogo stores a JPEG or PNG logo and its thumbnail and records
// both URLs on the shop.
func (s *ShopService) UploadLogo(ctx context.Context, id uuid.UUID, data []byte) (*entity.Shop, error) {
	shop, err := s.GetShop(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, apperror.NewFieldError("logo", "logo file is required")
	}
	if s.maxLogoSize > 0 && int64(len(data)) > s.maxLogoSize {
		return nil, apperror.NewAppError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Logo exceeds the %d byte limit", s.maxLogoSize))
	}

	contentType, ext, err := storage.DetectImageType(data)
	if err != nil {
		return nil, apperror.NewFieldError("logo", err.Error())
	}
	thumb, err := storage.Thumbnail(data, storage.ThumbnailWidth)
	if err != nil {
		return nil, apperror.NewFieldError("logo", "logo image could not be decoded")
	}

	key := logoKey(shop.ID, ext)
	logoURL, err := s.storage.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}
	thumbURL, err := s.storage.Put(ctx, storage.ThumbnailKey(key), thumb, "image/jpeg")
	if err != nil {
		return nil, err
	}

	shop.LogoURL = &logoURL
	shop.LogoThumbnailURL = &thumbURL
	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	s.removeLogos(ctx, shop.ID, ext)
	return shop, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vidtube/internal/repository"
	"vidtube/internal/storage"
)

// FileUpload es el handle de archivo entregado por la capa de transporte.
// El caller garantiza que no se reutiliza después de la llamada.
type FileUpload struct {
	Body        io.Reader
	ContentType string
}

// MediaService coordina el reemplazo de avatar y cover image contra el
// object store externo, incluyendo la limpieza del objeto anterior.
type MediaService struct {
	logger *zap.Logger
	users  repository.UserRepository
	store  storage.ObjectStore
}

func NewMediaService(logger *zap.Logger, users repository.UserRepository, store storage.ObjectStore) *MediaService {
	return &MediaService{
		logger: logger,
		users:  users,
		store:  store,
	}
}

// Upload sube un archivo nuevo sin tocar ningún registro. Lo usa el registro
// de cuentas para el avatar/cover inicial.
func (m *MediaService) Upload(ctx context.Context, file *FileUpload) (storage.Object, error) {
	if file == nil || file.Body == nil {
		return storage.Object{}, fmt.Errorf("%w: file is required", ErrValidation)
	}
	obj, err := m.store.Upload(ctx, file.Body, file.ContentType)
	if err != nil {
		return storage.Object{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return obj, nil
}

// Discard borra un objeto ya subido que nunca llegó a tener dueño, por
// ejemplo cuando el registro de la cuenta falla después de la subida. Un
// borrado fallido se loguea y queda como item de reconciliación.
func (m *MediaService) Discard(ctx context.Context, obj storage.Object) {
	if obj.Key == "" {
		return
	}
	if err := m.store.Delete(ctx, obj.Key); err != nil {
		m.logger.Warn("unclaimed storage object not deleted",
			zap.String("key", obj.Key), zap.Error(err))
	}
}

// ReplaceAvatar sube el archivo nuevo, actualiza el registro y recién después
// borra el objeto anterior. Si el borrado falla la operación igual tiene
// éxito: un objeto huérfano se tolera antes que dejar al usuario sin avatar.
func (m *MediaService) ReplaceAvatar(ctx context.Context, userID string, file *FileUpload) (storage.Object, error) {
	if file == nil || file.Body == nil {
		return storage.Object{}, fmt.Errorf("%w: avatar file is required", ErrValidation)
	}

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Object{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return storage.Object{}, err
	}

	obj, err := m.store.Upload(ctx, file.Body, file.ContentType)
	if err != nil {
		// El registro y el objeto existente quedan intactos.
		return storage.Object{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if err := m.users.UpdateAvatar(ctx, userID, obj.URL, obj.Key); err != nil {
		if delErr := m.store.Delete(ctx, obj.Key); delErr != nil {
			m.logger.Warn("orphaned storage object after failed update",
				zap.String("key", obj.Key), zap.Error(delErr))
		}
		return storage.Object{}, err
	}

	if user.AvatarKey != "" {
		if err := m.store.Delete(ctx, user.AvatarKey); err != nil {
			// Degradación deliberada: queda como item de reconciliación.
			m.logger.Warn("old avatar object not deleted",
				zap.String("key", user.AvatarKey), zap.Error(err))
		}
	}

	return obj, nil
}

// ReplaceCoverImage sigue el mismo contrato que ReplaceAvatar; un cover
// ausente es un estado terminal válido.
func (m *MediaService) ReplaceCoverImage(ctx context.Context, userID string, file *FileUpload) (storage.Object, error) {
	if file == nil || file.Body == nil {
		return storage.Object{}, fmt.Errorf("%w: cover image file is required", ErrValidation)
	}

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Object{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return storage.Object{}, err
	}

	obj, err := m.store.Upload(ctx, file.Body, file.ContentType)
	if err != nil {
		return storage.Object{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	if err := m.users.UpdateCoverImage(ctx, userID, obj.URL, obj.Key); err != nil {
		if delErr := m.store.Delete(ctx, obj.Key); delErr != nil {
			m.logger.Warn("orphaned storage object after failed update",
				zap.String("key", obj.Key), zap.Error(delErr))
		}
		return storage.Object{}, err
	}

	if user.CoverImageKey != "" {
		if err := m.store.Delete(ctx, user.CoverImageKey); err != nil {
			m.logger.Warn("old cover image object not deleted",
				zap.String("key", user.CoverImageKey), zap.Error(err))
		}
	}

	return obj, nil
}

package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/listenupapp/readlog-server/internal/config"
	"github.com/listenupapp/readlog-server/internal/logger"
	"github.com/listenupapp/readlog-server/internal/media/covers"
	"github.com/listenupapp/readlog-server/internal/media/images"
)

// ProvideFileStorage provides the file storage rooted at the storage path.
func ProvideFileStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	files, err := images.NewStorage(cfg.Storage.FilesPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}

	log.Info("File storage initialized", "path", cfg.Storage.FilesPath)

	return files, nil
}

// ProvideCoverStorage provides cover storage on top of the file storage.
func ProvideCoverStorage(i do.Injector) (*covers.Storage, error) {
	files := do.MustInvoke[*images.Storage](i)
	return covers.NewStorage(files), nil
}

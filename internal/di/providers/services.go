package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/readlog-server/internal/logger"
	"github.com/listenupapp/readlog-server/internal/media/covers"
	"github.com/listenupapp/readlog-server/internal/service"
	"github.com/listenupapp/readlog-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideGenreChecker provides the genre existence checker.
func ProvideGenreChecker(i do.Injector) (*service.GenreChecker, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return service.NewGenreChecker(storeHandle.Store), nil
}

// ProvideGenreService provides the genre service.
func ProvideGenreService(i do.Injector) (*service.GenreService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return service.NewGenreService(storeHandle.Store), nil
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	genreChecker := do.MustInvoke[*service.GenreChecker](i)
	coverStorage := do.MustInvoke[*covers.Storage](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, genreChecker, coverStorage, indexHandle.BookIndex, log.Logger), nil
}

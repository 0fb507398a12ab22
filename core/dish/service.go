package dish

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/cafeteria/core"
)

var (
	// errors
	ErrNotFound     = errors.New("dish not found")
	ErrNoGenerator  = errors.New("menu generator not configured")
	errEmptyMenu    = core.NewFieldError("dishes", "at least one dish is required")
	errInvalidCount = core.NewFieldError("n_platos", "must be between 1 and 20")

	images = []string{
		"/assets/images/completos/EnsaladaQuinoaAguacate.png",
		"/assets/images/completos/TacosPescadoSalsaMango.png",
		"/assets/images/completos/CurryPolloArrozBasmati.png",
		"/assets/images/results/SopaLentejasVerduras.png",
		"/assets/images/completos/HamburguesaVeganaBatatasFritas.png",
		"/assets/images/completos/PastaSalsaPestoTomatesCherry.png",
		"/assets/images/completos/PizzaMargarita.png",
		"/assets/images/completos/SushiVariado.png",
		"/assets/images/completos/PaellaMariscos.png",
		"/assets/images/completos/LasagnaCarne.png",
		"/assets/images/completos/SalmonParrilla.png",
		"/assets/images/completos/EnsaladaCesar.png",
	}
)

const maxGeneratedDishes = 20

// GeneratorError is returned when the upstream menu generator fails or cannot be reached.
type GeneratorError struct {
	Status int
	Err    error
}

func (err GeneratorError) Error() string {
	if err.Status != 0 {
		return fmt.Sprintf("menu generator: status %d: %v", err.Status, err.Err)
	}
	return fmt.Sprintf("menu generator: %v", err.Err)
}

type (
	Repository interface {
		// FindDishByName does an exact, case-sensitive match; the earliest stored Dish wins on duplicates.
		FindDishByName(ctx context.Context, name string) (Dish, error)
		QueryAllDishes(ctx context.Context) ([]Dish, error)
		CreateDishes(ctx context.Context, dishes []Dish) (int, error)
	}

	// Generator produces the raw upstream menu payload (see ParseMenu).
	Generator interface {
		GenerateMenu(ctx context.Context, size int) ([]byte, error)
	}

	Service struct {
		repo      Repository
		gen       Generator
		validator *core.Validator

		mu  sync.Mutex
		rnd *rand.Rand
	}
)

// NewService returns the catalog service. gen may be nil if menus are only seeded from files.
func NewService(repo Repository, gen Generator, v *core.Validator) *Service {
	return &Service{
		repo:      repo,
		gen:       gen,
		validator: v,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (svc *Service) FindByName(ctx context.Context, name string) (Dish, error) {
	if name == "" {
		return Dish{}, ErrNotFound
	}
	return svc.repo.FindDishByName(ctx, name)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Dish, error) {
	return svc.repo.QueryAllDishes(ctx)
}

func (svc *Service) randomImage() string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return images[svc.rnd.Intn(len(images))]
}

// Seed validates and appends dishes to the catalog.
func (svc *Service) Seed(ctx context.Context, nds []NewDish) (int, error) {
	if len(nds) == 0 {
		return 0, errEmptyMenu
	}

	now := time.Now().UTC()
	dishes := make([]Dish, 0, len(nds))
	for i := range nds {
		nd := nds[i]
		nd.Clean()
		if err := svc.validator.Struct(nd); err != nil {
			return 0, prefixFields(err, fmt.Sprintf("dishes[%d].", i))
		}
		if nd.Image == "" {
			nd.Image = svc.randomImage()
		}
		dishes = append(dishes, Dish{
			Name:        nd.Name,
			Description: nd.Description,
			Image:       nd.Image,
			Nutrition:   nd.Nutrition,
			Ingredients: nd.Ingredients,
			CreatedAt:   now,
		})
	}
	return svc.repo.CreateDishes(ctx, dishes)
}

// Generate asks the upstream generator for `size` dishes and seeds them.
func (svc *Service) Generate(ctx context.Context, size int) (int, error) {
	if svc.gen == nil {
		return 0, ErrNoGenerator
	}
	if size < 1 || size > maxGeneratedDishes {
		return 0, errInvalidCount
	}

	payload, err := svc.gen.GenerateMenu(ctx, size)
	if err != nil {
		return 0, err
	}
	nds, err := ParseMenu(payload, svc.validator)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "parsing upstream menu")
	}
	return svc.Seed(ctx, nds)
}

func prefixFields(err error, prefix string) error {
	vErr, ok := pkgerrors.Cause(err).(*core.ValidationError)
	if !ok {
		return err
	}
	flds := make([]core.FieldError, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		flds = append(flds, core.FieldError{Field: prefix + f.Field, Error: f.Error})
	}
	return core.NewValidationError(vErr.Err, flds...)
}

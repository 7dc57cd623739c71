package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopfront/internal/cache"
	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/media"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
	"shopfront/internal/services"
	"shopfront/internal/theme"
)

// Infra is the process-wide plumbing built in main from config.
type Infra struct {
	Cache    cache.Cache
	Events   events.Publisher
	Mailer   notify.Mailer
	Uploader media.Uploader
	Perms    *config.PermissionConfig
	Resolver *theme.Resolver
	Views    theme.Renderer
}

type Deps struct {
	Site     *Site
	Auth     *services.AuthService
	Perms    *config.PermissionConfig
	Stores   *repos.StoreRepo
	Resolver *theme.Resolver

	CategoryHandler   *CategoryHandler
	ProductHandler    *ProductHandler
	SearchHandler     *SearchHandler
	BlogHandler       *BlogHandler
	CartHandler       *CartHandler
	WishlistHandler   *WishlistHandler
	OrderHandler      *OrderHandler
	AuthHandler       *AuthHandler
	NewsletterHandler *NewsletterHandler
	AdminHandler      *AdminHandler
	InventoryHandler  *InventoryHandler
}

// secureCookies marks the sid cookie Secure; set once by NewDeps.
var secureCookies bool

func NewDeps(db *sqlx.DB, cfg config.Config, infra Infra) *Deps {
	secureCookies = cfg.CookieSecure

	storeRepo := repos.NewStoreRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	blogRepo := repos.NewBlogRepo(db)
	shipRepo := repos.NewShippingRepo(db)
	taxRepo := repos.NewTaxRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	tplRepo := repos.NewTemplateRepo(db)
	posRepo := repos.NewPOSRepo(db)
	newsRepo := repos.NewNewsletterRepo(db)

	commerce := services.NewCommerceService(cartRepo, wishRepo, prodRepo, infra.Cache, infra.Events)
	catalog := services.NewCatalogService(catRepo, prodRepo, reviewRepo, blogRepo)
	blog := services.NewBlogService(blogRepo)

	orders := services.NewOrderService(cartRepo, orderRepo, shipRepo, commerce)
	orders.Templates = tplRepo
	orders.Mailer = infra.Mailer
	if infra.Events != nil {
		orders.Events = infra.Events
	}

	auth := services.NewAuthService(userRepo, cartRepo, commerce)
	auth.Templates = tplRepo
	auth.Mailer = infra.Mailer

	news := services.NewNewsletterService(newsRepo, tplRepo, infra.Mailer, infra.Events)

	site := &Site{
		Stores:   storeRepo,
		Cats:     catRepo,
		Resolver: infra.Resolver,
		Composer: &theme.Composer{Views: infra.Views},
		Commerce: commerce,
		Perms:    infra.Perms,
	}

	return &Deps{
		Site:     site,
		Auth:     auth,
		Perms:    infra.Perms,
		Stores:   storeRepo,
		Resolver: infra.Resolver,

		CategoryHandler:   &CategoryHandler{Site: site, Catalog: catalog},
		ProductHandler:    &ProductHandler{Site: site, Catalog: catalog},
		SearchHandler:     &SearchHandler{Site: site, Catalog: catalog},
		BlogHandler:       &BlogHandler{Site: site, Blog: blog},
		CartHandler:       &CartHandler{Site: site, Commerce: commerce, Orders: orders},
		WishlistHandler:   &WishlistHandler{Site: site, Commerce: commerce},
		OrderHandler:      &OrderHandler{Site: site, Orders: orders},
		AuthHandler:       &AuthHandler{Site: site, Auth: auth},
		NewsletterHandler: &NewsletterHandler{Stores: storeRepo, News: news},
		AdminHandler: &AdminHandler{
			Stores:    storeRepo,
			Resolver:  infra.Resolver,
			Orders:    orders,
			OrderRepo: orderRepo,
			Inventory: invRepo,
			Reviews:   reviewRepo,
			Templates: tplRepo,
			Subs:      newsRepo,
			Resources: NewResources(catRepo, prodRepo, orderRepo, shipRepo, taxRepo, reviewRepo, tplRepo, posRepo, infra.Uploader),
		},
		InventoryHandler: &InventoryHandler{Inventory: invRepo},
	}
}

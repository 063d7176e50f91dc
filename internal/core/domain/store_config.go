package domain

// StoreConfig is the locally persisted storefront configuration.
// It has no server counterpart.
type StoreConfig struct {
	General         GeneralInfo   `json:"general" yaml:"general"`
	Comercio        CommerceRules `json:"comercio" yaml:"comercio"`
	Funciones       FeatureFlags  `json:"funciones" yaml:"funciones"`
	Hero            HeroBanner    `json:"hero" yaml:"hero"`
	Caracteristicas []Highlight   `json:"caracteristicas" yaml:"caracteristicas" validate:"dive"`
	Redes           SocialLinks   `json:"redes" yaml:"redes"`
	Categorias      []string      `json:"categorias" yaml:"categorias"`
}

// StoreConfigSections lists the section names accepted by a per-section save
var StoreConfigSections = []string{"general", "comercio", "funciones", "hero", "caracteristicas", "redes", "categorias"}

type GeneralInfo struct {
	NombreTienda string `json:"nombreTienda" yaml:"nombreTienda" validate:"required,max=120"`
	Descripcion  string `json:"descripcion" yaml:"descripcion"`
	Email        string `json:"email" yaml:"email" validate:"omitempty,email"`
	Telefono     string `json:"telefono" yaml:"telefono"`
	Direccion    string `json:"direccion" yaml:"direccion"`
	LogoURL      string `json:"logoUrl" yaml:"logoUrl"`
}

// CommerceRules holds currency, tax and shipping rules
type CommerceRules struct {
	Moneda           string  `json:"moneda" yaml:"moneda" validate:"required,max=3"`
	Simbolo          string  `json:"simbolo" yaml:"simbolo" validate:"required"`
	Iva              float64 `json:"iva" yaml:"iva" validate:"gte=0,lte=100"`
	IvaIncluido      bool    `json:"ivaIncluido" yaml:"ivaIncluido"`
	CostoEnvio       float64 `json:"costoEnvio" yaml:"costoEnvio" validate:"gte=0"`
	EnvioGratisDesde float64 `json:"envioGratisDesde" yaml:"envioGratisDesde" validate:"gte=0"`
}

type FeatureFlags struct {
	MostrarDestacados bool `json:"mostrarDestacados" yaml:"mostrarDestacados"`
	PermitirRegistro  bool `json:"permitirRegistro" yaml:"permitirRegistro"`
	MostrarStock      bool `json:"mostrarStock" yaml:"mostrarStock"`
	ModoMantenimiento bool `json:"modoMantenimiento" yaml:"modoMantenimiento"`
}

type HeroBanner struct {
	Titulo     string `json:"titulo" yaml:"titulo"`
	Subtitulo  string `json:"subtitulo" yaml:"subtitulo"`
	TextoBoton string `json:"textoBoton" yaml:"textoBoton"`
	ImagenURL  string `json:"imagenUrl" yaml:"imagenUrl"`
}

// Highlight is one entry of the home page feature list
type Highlight struct {
	Icono       string `json:"icono" yaml:"icono"`
	Titulo      string `json:"titulo" yaml:"titulo" validate:"required"`
	Descripcion string `json:"descripcion" yaml:"descripcion"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook" yaml:"facebook"`
	Instagram string `json:"instagram" yaml:"instagram"`
	Twitter   string `json:"twitter" yaml:"twitter"`
	Whatsapp  string `json:"whatsapp" yaml:"whatsapp"`
}

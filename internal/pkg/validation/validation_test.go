package validation

import (
	"testing"

	"tienda-console/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBilling() domain.BillingData {
	return domain.BillingData{
		NombreCliente: "Ana Gómez",
		Documento:     "1020304050",
		Telefono:      "3001234567",
		Direccion:     "Calle 10 # 20-30",
		Ciudad:        "Medellín",
		Pais:          "Colombia",
		Email:         "ana@example.com",
		MetodoPago:    domain.PaymentCard,
	}
}

func TestStructAcceptsValidBilling(t *testing.T) {
	b := validBilling()
	assert.NoError(t, Struct(&b))
}

func TestStructReportsFieldByJSONName(t *testing.T) {
	b := validBilling()
	b.Direccion = ""
	b.Email = "no-es-correo"

	err := Struct(&b)
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "El campo 'direccion' es obligatorio.", verr.Fields["direccion"])
	assert.Contains(t, verr.Fields["email"], "correo electrónico")
	assert.Len(t, verr.Fields, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStructEnglishMessages(t *testing.T) {
	b := validBilling()
	b.MetodoPago = "BITCOIN"

	err := Struct(&b, "en")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The field 'metodoPago' must be one of: EFECTIVO TARJETA TRANSFERENCIA.", verr.Fields["metodoPago"])
}

func TestStructEqField(t *testing.T) {
	type form struct {
		Password        string `json:"password" validate:"required,min=6"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	}
	err := Struct(&form{Password: "secreto1", ConfirmPassword: "otro1234"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "El campo 'confirmPassword' debe coincidir con 'password'.", verr.Fields["confirmPassword"])
}

func TestStructNumericMin(t *testing.T) {
	p := domain.Product{Nombre: "Café", Precio: -1}
	err := Struct(&p)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "El campo 'precio' debe ser mayor o igual a 0.", verr.Fields["precio"])
}

func TestStructKeysNestedFieldsByPath(t *testing.T) {
	type highlight struct {
		Titulo string `json:"titulo" validate:"required"`
	}
	type page struct {
		Titulo          string      `json:"titulo" validate:"required"`
		Caracteristicas []highlight `json:"caracteristicas" validate:"dive"`
	}

	err := Struct(&page{Caracteristicas: []highlight{{Titulo: "Envíos"}, {}, {}}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Equal(t, "El campo 'titulo' es obligatorio.", verr.Fields["titulo"])
	assert.Equal(t, "El campo 'caracteristicas[1].titulo' es obligatorio.", verr.Fields["caracteristicas[1].titulo"])
	assert.Contains(t, verr.Fields, "caracteristicas[2].titulo")
}

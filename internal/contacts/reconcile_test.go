package contacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileDedupesByDigits(t *testing.T) {
	device := []DeviceContact{
		{Name: "Ana", Phones: []string{"11 91234-5678"}},
		{Name: "Ana Duplicate", Phones: []string{"11912345678"}},
	}

	got, err := Reconcile(device, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].Name, "primeira ocorrência vence")
	assert.Equal(t, "11 91234-5678", got[0].Phone, "telefone preservado como veio do aparelho")
}

func TestReconcileExcludesExistingClients(t *testing.T) {
	device := []DeviceContact{
		{Name: "Bia", Phones: []string{"(11) 99999-8888"}},
		{Name: "Carla", Phones: []string{"11 98888-7777"}},
	}

	got, err := Reconcile(device, []string{"11999998888"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Carla", got[0].Name)
}

func TestReconcileFlattensMultiplePhones(t *testing.T) {
	device := []DeviceContact{
		{Name: "Duda", Phones: []string{"11 97777-6666", "11 96666-5555"}},
	}

	got, err := Reconcile(device, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Duda", got[0].Name)
	assert.Equal(t, "Duda", got[1].Name)
}

func TestReconcileDiscardsShortNumbers(t *testing.T) {
	device := []DeviceContact{
		{Name: "Ramal", Phones: []string{"4002"}},
		{Name: "Fixo", Phones: []string{"3333-4444"}},
	}

	got, err := Reconcile(device, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fixo", got[0].Name)
}

func TestReconcileSortsFoldingAccents(t *testing.T) {
	device := []DeviceContact{
		{Name: "Zeca", Phones: []string{"11 90000-0001"}},
		{Name: "Álvaro", Phones: []string{"11 90000-0002"}},
		{Name: "ana", Phones: []string{"11 90000-0003"}},
	}

	got, err := Reconcile(device, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Álvaro", got[0].Name)
	assert.Equal(t, "ana", got[1].Name)
	assert.Equal(t, "Zeca", got[2].Name)
}

func TestReconcileEmptyDevice(t *testing.T) {
	_, err := Reconcile(nil, nil)
	assert.ErrorIs(t, err, ErrNoContacts)

	_, err = Reconcile([]DeviceContact{}, nil)
	assert.ErrorIs(t, err, ErrNoContacts)
}

func TestReconcileAllFilteredOut(t *testing.T) {
	// Agenda não vazia, mas sem nenhum contato utilizável: é "nada para
	// importar", não "agenda vazia".
	device := []DeviceContact{
		{Name: "   ", Phones: []string{"11912345678"}},
		{Name: "Ramal", Phones: []string{"4002"}},
	}

	_, err := Reconcile(device, nil)
	assert.ErrorIs(t, err, ErrNothingToImport)
}

func TestReconcileTrimsNames(t *testing.T) {
	device := []DeviceContact{
		{Name: "  Ana  ", Phones: []string{"11 91234-5678"}},
	}

	got, err := Reconcile(device, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].Name)
}

func TestReconcileEverythingAlreadyImported(t *testing.T) {
	device := []DeviceContact{
		{Name: "Ana", Phones: []string{"11 91234-5678"}},
	}

	_, err := Reconcile(device, []string{"11912345678"})
	assert.ErrorIs(t, err, ErrNothingToImport)
}

// Package contacts reconcilia a agenda do aparelho com a carteira de clientes
// já cadastrada, produzindo a lista de candidatos à importação.
package contacts

import (
	"errors"
	"sort"
	"strings"

	"github.com/BruksfildServices01/salon-agenda/internal/validators"
)

// Contato bruto vindo do aparelho: um nome e os telefones como estiverem
// formatados lá.
type DeviceContact struct {
	Name   string   `json:"name"`
	Phones []string `json:"phones"`
}

// Candidate é um par nome/telefone pronto para virar cliente.
type Candidate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

var (
	// ErrNoContacts: a agenda do aparelho não tinha nenhum contato utilizável.
	ErrNoContacts = errors.New("nenhum contato encontrado no aparelho")
	// ErrNothingToImport: havia contatos, mas todos já são clientes.
	ErrNothingToImport = errors.New("nenhum contato novo para importar")
)

const minPhoneDigits = 8

// Reconcile cruza os contatos do aparelho com os telefones já cadastrados e
// devolve os candidatos ordenados por nome.
//
//	🔹 achata em pares (nome, telefone), um por telefone de cada contato
//	🔹 descarta números com menos de 8 dígitos
//	🔹 deduplica pelos dígitos, primeira ocorrência vence
//	🔹 remove quem já é cliente (comparação também pelos dígitos)
//	🔹 ordena por nome ignorando acentos
//
// Os dois estados vazios são sinais distintos: ErrNoContacts só quando a
// agenda do aparelho veio literalmente vazia; se havia contatos mas nenhum
// sobrou (sem nome, números curtos, todos já cadastrados), é
// ErrNothingToImport. Nenhum dos dois é falha de verdade, o chamador mostra
// uma mensagem informativa.
func Reconcile(device []DeviceContact, existingPhones []string) ([]Candidate, error) {
	if len(device) == 0 {
		return nil, ErrNoContacts
	}

	flattened := flatten(device)
	if len(flattened) == 0 {
		return nil, ErrNothingToImport
	}

	existing := make(map[string]struct{}, len(existingPhones))
	for _, p := range existingPhones {
		if d := validators.Digits(p); d != "" {
			existing[d] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(flattened))
	candidates := make([]Candidate, 0, len(flattened))
	for _, c := range flattened {
		digits := validators.Digits(c.Phone)
		if _, dup := seen[digits]; dup {
			continue
		}
		seen[digits] = struct{}{}
		if _, known := existing[digits]; known {
			continue
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil, ErrNothingToImport
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return validators.Fold(candidates[i].Name) < validators.Fold(candidates[j].Name)
	})
	return candidates, nil
}

func flatten(device []DeviceContact) []Candidate {
	out := make([]Candidate, 0, len(device))
	for _, c := range device {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		for _, phone := range c.Phones {
			if len(validators.Digits(phone)) < minPhoneDigits {
				continue
			}
			out = append(out, Candidate{Name: name, Phone: phone})
		}
	}
	return out
}

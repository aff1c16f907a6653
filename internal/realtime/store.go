package realtime

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Doc é qualquer documento persistível com identificador próprio.
type Doc interface {
	DocID() string
	SetDocID(id string)
}

// Filter restringe uma consulta por igualdade em um único campo (coluna
// snake_case, a mesma dos tags json/gorm dos models). Zero value = coleção
// inteira.
type Filter struct {
	Field string
	Value any
}

func (f Filter) Empty() bool { return f.Field == "" }

// Collection é a visão tipada de uma coleção de documentos remota.
//
// O contrato de Subscribe segue o comportamento de um canal realtime
// gerenciado: logo após o registro o snapshot atual é entregue uma vez, e a
// cada mudança que case com o filtro (deste processo ou de outro nó) o
// conjunto de resultados COMPLETO é reentregue — nunca um patch incremental.
// Entregas de uma mesma subscription são serializadas. O cancel é
// determinístico: nenhuma entrega nova começa depois que ele retorna.
//
// Escritas não tocam estado local de ninguém; o efeito só fica visível quando
// a subscription reentrega o conjunto atualizado.
type Collection[T Doc] interface {
	Create(ctx context.Context, doc T) (string, error)
	Update(ctx context.Context, id string, patch map[string]any) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (T, error)
	QueryOnce(ctx context.Context, filter Filter) ([]T, error)
	Subscribe(filter Filter, onChange func([]T)) (cancel func())
}

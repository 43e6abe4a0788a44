// Package partition детерминированно раскладывает идентификаторы тестов по шардам.
//
// Каждый процесс шарда вычисляет своё разбиение независимо, из одного и того же
// вывода коллектора и одной и той же конфигурации. Поэтому все функции пакета
// чистые: одинаковый вход всегда даёт одинаковый план, а планы разных шардов
// не пересекаются без какой-либо координации между процессами.
//
// Порядок работы:
//
//	ResolveRole  → позиция шарда (закреплённый или обычный слот) и фильтр маркеров для сбора
//	RemoveParents → удаление родительских идентификаторов, у которых есть дочерние
//	BuildGroups  → группировка по модулю или классу с сохранением порядка обнаружения
//	Assign       → выбор групп (или отдельных тестов) текущего слота по модулю
package partition

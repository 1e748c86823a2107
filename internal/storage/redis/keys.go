package redis

import "strconv"

// keyspace builds the Redis keys for each record type.
type keyspace struct {
	prefix string
}

func (k keyspace) user(address string) string {
	return k.prefix + ":user:" + address
}

func (k keyspace) userGroups(address string) string {
	return k.prefix + ":user:" + address + ":groups"
}

func (k keyspace) ownerPlans(address string) string {
	return k.prefix + ":owner:" + address + ":plans"
}

func (k keyspace) plan(planID uint64) string {
	return k.prefix + ":plan:" + strconv.FormatUint(planID, 10)
}

func (k keyspace) members(planID uint64) string {
	return k.prefix + ":plan:" + strconv.FormatUint(planID, 10) + ":members"
}

func (k keyspace) planCounter() string {
	return k.prefix + ":counter:plan_id"
}

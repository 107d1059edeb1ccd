package sqlinline

const userColumns = `id::text, name, email::text, role, phone, address, image_url, registration_number,
       team_type_id::text, password_hash, created_at, updated_at`

const QInsertUser = `--sql 76230e79-db8d-41fb-8fa4-a17e2dbae220
insert into users(id, name, email, role, phone, address, image_url, registration_number, team_type_id, password_hash, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text,
        nullif($8::text, '')::uuid, nullif($9::text, ''), now(), now())
returning id::text, created_at, updated_at;
`

const QSelectUserByID = `--sql d8e8c37f-2e47-4388-a471-c1e50047d19b
select ` + userColumns + `
from users
where id = $1::uuid;
`

const QSelectUserByEmail = `--sql fb390af3-4cd0-45a2-afe7-c481bd38e221
select ` + userColumns + `
from users
where email = $1::citext;
`

const QListUsers = `--sql 838ce972-1e02-4875-a7fb-15d4b09c17b3
select ` + userColumns + `
from users
order by name asc, created_at asc
limit $1::int offset $2::int;
`

const QCountUsers = `--sql 9e814286-625b-47b4-a0d2-71192eef74f1
select count(*)
from users;
`

// QUpdateUser refuses to demote the last Admin. The admin rows are locked so
// concurrent demotions serialize on the count.
const QUpdateUser = `--sql be64d791-0181-44a4-8dec-be4f31eb4c8e
update users
set name                = $2::text,
    email               = $3::text,
    role                = $4::text,
    phone               = $5::text,
    address             = $6::text,
    image_url           = $7::text,
    registration_number = $8::text,
    team_type_id        = nullif($9::text, '')::uuid,
    updated_at          = now()
where id = $1::uuid
  and ($4::text = 'Admin'
       or role <> 'Admin'
       or (select count(*) from (select 1 from users where role = 'Admin' for update) admins) > 1)
returning updated_at;
`

const QSetUserPassword = `--sql 8b97addc-4e3a-4f6c-8847-3e99a825381f
update users
set password_hash = $2::text,
    updated_at    = now()
where id = $1::uuid;
`

const QDeleteUser = `--sql b2db91b3-4976-43aa-b52d-abd6484f0c47
delete from users
where id = $1::uuid
  and (role <> 'Admin'
       or (select count(*) from (select 1 from users where role = 'Admin' for update) admins) > 1);
`

const QUserExists = `--sql c028ee18-cb7a-44dc-942b-e5164a9b7f62
select exists(select 1 from users where id = $1::uuid);
`

const QListTeamMembers = `--sql dcafb071-6447-4fc8-b132-c30897b30276
select ` + userColumns + `
from users
where team_type_id is not null
order by name asc;
`

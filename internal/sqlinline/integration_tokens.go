package sqlinline

const QSelectIntegrationToken = `--sql 7ae7cb07-7756-40ea-96c6-ff5acc140088
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql d97cde58-ad96-4d3f-825c-9f0852210fce
insert into integration_tokens (id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token      = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`

const QListIntegrationProviders = `--sql 107803dc-1a12-4da8-91dd-e8780606cc4d
select provider, updated_at
from integration_tokens
order by provider asc;
`
